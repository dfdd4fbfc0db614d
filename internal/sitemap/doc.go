// Package sitemap writes a sitemaps.org document listing every link
// extracted from the seed document.
package sitemap
