package library

// SampleCatalog returns the starter catalog seeded into new databases.
func SampleCatalog() []ContentItem {
	return []ContentItem{
		{ID: 1, Title: "Understanding Your Audience", Type: TypeBlogPost, Date: MustDate("2023-05-15"), Status: StatusPublished, Views: 1250, Thumbnail: "https://source.unsplash.com/random/300x200?blog"},
		{ID: 2, Title: "Content Marketing Strategies", Type: TypeVideo, Date: MustDate("2023-06-22"), Status: StatusDraft, Views: 0, Thumbnail: "https://source.unsplash.com/random/300x200?marketing"},
		{ID: 3, Title: "SEO Best Practices", Type: TypeInfographic, Date: MustDate("2023-04-30"), Status: StatusPublished, Views: 3420, Thumbnail: "https://source.unsplash.com/random/300x200?seo"},
		{ID: 4, Title: "Social Media Growth Hacks", Type: TypeBlogPost, Date: MustDate("2023-07-05"), Status: StatusScheduled, Views: 0, Thumbnail: "https://source.unsplash.com/random/300x200?social"},
		{ID: 5, Title: "Creating Engaging Reels", Type: TypeVideo, Date: MustDate("2023-06-10"), Status: StatusPublished, Views: 5670, Thumbnail: "https://source.unsplash.com/random/300x200?video"},
		{ID: 6, Title: "Analytics Deep Dive", Type: TypeCaseStudy, Date: MustDate("2023-07-18"), Status: StatusDraft, Views: 0, Thumbnail: "https://source.unsplash.com/random/300x200?analytics"},
	}
}
