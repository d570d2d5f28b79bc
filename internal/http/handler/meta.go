package handler

import (
	"notehub/internal/config"
	"notehub/internal/http/view"
	"notehub/internal/note"
)

const descriptionLen = 160

func siteMetadata(site config.Site) view.Metadata {
	return view.Metadata{
		Title:       site.Title,
		Description: site.Description,
		URL:         site.BaseURL,
		SiteName:    site.Name,
		Type:        "website",
		Image:       site.Image,
		ImageAlt:    site.Name,
	}
}

func listMetadata(site config.Site, tag string) view.Metadata {
	title := site.Name + " — All Notes"
	description := "Browse all notes on " + site.Name + "."
	if tag != note.TagAll {
		title = site.Name + " — Notes: " + tag
		description = "Browse notes filtered by: " + tag + "."
	}
	return view.Metadata{
		Title:       title,
		Description: description,
		URL:         site.BaseURL + "/notes/filter/" + tag,
		SiteName:    site.Name,
		Type:        "website",
		Image:       site.Image,
		ImageAlt:    title,
	}
}

func noteMetadata(site config.Site, n note.Note) view.Metadata {
	return view.Metadata{
		Title:       "Note: " + n.Title,
		Description: n.Excerpt(descriptionLen),
		URL:         site.BaseURL + "/notes/" + n.ID.String(),
		SiteName:    site.Name,
		Type:        "article",
		Image:       site.Image,
		ImageAlt:    n.Title,
	}
}

func notFoundMetadata(site config.Site) view.Metadata {
	m := siteMetadata(site)
	m.Title = "404 - Page not found | " + site.Name
	m.Description = "Sorry, the page you are looking for does not exist."
	return m
}
