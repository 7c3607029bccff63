package groqkit

import (
	"groqkit/common"
	"groqkit/projection"
)

// SiteFragments returns the summary and full projections of every content
// type the site renders.
func SiteFragments() []projection.Fragment {
	var (
		attr  = projection.Attr
		alias = projection.Alias
		slug  = projection.Alias("slug", "slug.current")
		seo   = projection.Object("seo", "seo", attr("metaTitle"), attr("metaDescription"))
	)

	categorySummary := projection.New(common.Category, projection.Summary,
		attr("_id"), attr("title"), slug,
	)
	categoryFull := projection.Extend(categorySummary, projection.Full,
		attr("description"),
	)

	collectionSummary := projection.New(common.Collection, projection.Summary,
		attr("_id"), attr("_type"), attr("title"), slug,
		attr("description"), alias("image", "image.asset->url"),
		attr("featured"), attr("orderRank"),
	)
	collectionFull := projection.Extend(collectionSummary, projection.Full,
		projection.Ref("parent", "parent", collectionSummary),
		attr("body"), seo,
	)

	productSummary := projection.New(common.Product, projection.Summary,
		attr("_id"), attr("_type"), attr("title"), slug,
		attr("excerpt"), alias("mainImage", "mainImage.asset->url"),
		attr("price"), attr("featured"), attr("orderRank"),
		projection.Ref("collection", "collection", collectionSummary),
	)
	productFull := projection.Extend(productSummary, projection.Full,
		attr("description"), attr("tags"), attr("brand"),
		attr("powerSource"), attr("capacity"), attr("inStock"),
		alias("gallery", "gallery[].asset->url"),
		projection.List("specifications", "specifications", attr("label"), attr("value")),
		alias("brochureUrl", "brochure.asset->url"),
		attr("body"), seo,
	)

	teamSummary := projection.New(common.TeamMember, projection.Summary,
		attr("_id"), attr("_type"), attr("name"), slug,
		attr("role"), attr("department"), attr("order"),
		alias("photo", "photo.asset->url"),
	)
	teamFull := projection.Extend(teamSummary, projection.Full,
		attr("bio"), attr("email"), attr("phone"),
		projection.List("socials", "socials", attr("platform"), attr("url")),
	)

	postSummary := projection.New(common.Post, projection.Summary,
		attr("_id"), attr("_type"), attr("title"), slug,
		attr("excerpt"), attr("publishedAt"), attr("featured"),
		alias("mainImage", "mainImage.asset->url"),
		projection.Ref("author", "author", teamSummary),
		projection.RefList("categories", "categories", categorySummary),
	)
	postFull := projection.Extend(postSummary, projection.Full,
		attr("body"), attr("tags"), seo,
	)

	testimonialSummary := projection.New(common.Testimonial, projection.Summary,
		attr("_id"), attr("_type"), attr("_createdAt"), attr("quote"),
		attr("name"), attr("role"), attr("company"), attr("rating"),
		attr("featured"), alias("avatar", "avatar.asset->url"),
	)
	testimonialFull := projection.Extend(testimonialSummary, projection.Full,
		attr("location"),
		projection.Ref("product", "product", productSummary),
	)

	eventSummary := projection.New(common.Event, projection.Summary,
		attr("_id"), attr("_type"), attr("title"), slug,
		attr("startDate"), attr("endDate"), attr("location"),
		attr("featured"), alias("image", "image.asset->url"),
	)
	eventFull := projection.Extend(eventSummary, projection.Full,
		attr("description"), attr("body"), attr("registrationUrl"),
		projection.RefList("products", "products", productSummary),
		seo,
	)

	return []projection.Fragment{
		categorySummary, categoryFull,
		collectionSummary, collectionFull,
		productSummary, productFull,
		teamSummary, teamFull,
		postSummary, postFull,
		testimonialSummary, testimonialFull,
		eventSummary, eventFull,
	}
}

// DefaultRegistry builds the registry of SiteFragments.
func DefaultRegistry() (*projection.Registry, error) {
	return projection.NewRegistry(SiteFragments()...)
}
