package sources

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-enricher/internal/fetch"
	"github.com/jonathan/cv-enricher/internal/types"
)

// Extraction caps keep a runaway scrape from flooding the aggregate.
const (
	MaxWebsiteProjects     = 10
	MaxWebsitePosts        = 10
	MaxWebsiteTestimonials = 5
)

// pageKeywords maps a page category to the navigation-link words that
// identify it. Matching is against link text and path segments.
var pageKeywords = map[string][]string{
	"portfolio":    {"portfolio", "projects", "work"},
	"blog":         {"blog", "posts", "articles", "writing"},
	"testimonials": {"testimonials", "references", "recommendations"},
	"about":        {"about", "bio"},
}

// WebsiteAdapter scrapes a candidate's personal site: the homepage plus any
// discoverable portfolio, blog, testimonial, and about pages.
type WebsiteAdapter struct {
	options *fetch.Options
	log     *zap.Logger
}

// NewWebsiteAdapter creates a website adapter.
func NewWebsiteAdapter(log *zap.Logger) *WebsiteAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebsiteAdapter{
		options: fetch.DefaultOptions(),
		log:     log,
	}
}

// ID returns the source identifier.
func (a *WebsiteAdapter) ID() types.SourceID {
	return types.SourceWebsite
}

// Fetch scrapes the personal site. A missing URL or a 404 homepage yields an
// empty payload; transport failures are returned to the caller.
func (a *WebsiteAdapter) Fetch(ctx context.Context, req Request) (*types.SourcePayload, error) {
	if req.WebsiteURL == "" {
		return &types.SourcePayload{Website: &types.PersonalWebsite{}}, nil
	}

	result, err := fetch.URL(ctx, req.WebsiteURL, a.options)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return &types.SourcePayload{Website: &types.PersonalWebsite{URL: req.WebsiteURL}}, nil
		}
		return nil, err
	}

	site := &types.PersonalWebsite{URL: req.WebsiteURL}

	doc, derr := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if derr == nil {
		site.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if about, aerr := fetch.ExtractMainText(result.HTML, fetch.AboutPageSelectors()); aerr == nil {
		site.About = about
	}

	// Harvest anything the homepage itself exposes before walking subpages.
	site.Projects = ExtractProjects(result.HTML, req.WebsiteURL)
	site.Posts = ExtractPosts(result.HTML, req.WebsiteURL)
	site.Testimonials = ExtractTestimonials(result.HTML)

	// Subpages are independent; fetch them concurrently. A failed subpage
	// is logged and skipped, never fatal.
	pages := DiscoverPages(result.HTML, req.WebsiteURL)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for category, pageURL := range pages {
		g.Go(func() error {
			sub, ferr := fetch.URL(gctx, pageURL, a.options)
			if ferr != nil {
				a.log.Debug("website subpage fetch failed",
					zap.String("category", category), zap.String("url", pageURL), zap.Error(ferr))
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			switch category {
			case "portfolio":
				site.Projects = append(site.Projects, ExtractProjects(sub.HTML, pageURL)...)
			case "blog":
				site.Posts = append(site.Posts, ExtractPosts(sub.HTML, pageURL)...)
			case "testimonials":
				site.Testimonials = append(site.Testimonials, ExtractTestimonials(sub.HTML)...)
			case "about":
				if site.About == "" {
					if about, aerr := fetch.ExtractMainText(sub.HTML, fetch.AboutPageSelectors()); aerr == nil {
						site.About = about
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	site.Projects = dedupProjects(site.Projects, MaxWebsiteProjects)
	if len(site.Posts) > MaxWebsitePosts {
		site.Posts = site.Posts[:MaxWebsitePosts]
	}
	if len(site.Testimonials) > MaxWebsiteTestimonials {
		site.Testimonials = site.Testimonials[:MaxWebsiteTestimonials]
	}

	return &types.SourcePayload{Website: site}, nil
}

// DiscoverPages finds same-domain subpages by matching navigation-link text
// and path segments against the page keyword list. The first match per
// category wins.
func DiscoverPages(htmlContent, baseURL string) map[string]string {
	pages := make(map[string]string)

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return pages
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return pages
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(linkURL)
		if resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""

		linkText := strings.ToLower(strings.TrimSpace(s.Text()))
		linkPath := strings.ToLower(resolved.Path)
		for category, keywords := range pageKeywords {
			if _, taken := pages[category]; taken {
				continue
			}
			for _, kw := range keywords {
				if linkText == kw || strings.Contains(linkPath, kw) {
					pages[category] = strings.TrimSuffix(resolved.String(), "/")
					break
				}
			}
		}
	})

	return pages
}

// ExtractProjects pulls project records out of a page via selector
// heuristics.
func ExtractProjects(htmlContent, baseURL string) []types.WebsiteProject {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var projects []types.WebsiteProject
	doc.Find(".project, .portfolio-item, .project-card, article.project").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find("h2, h3, .project-title, .title").First().Text())
		if name == "" {
			return
		}
		project := types.WebsiteProject{
			Name:        name,
			Description: strings.TrimSpace(s.Find("p, .description, .project-description").First().Text()),
		}
		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			project.URL = resolveURL(baseURL, href)
		}
		s.Find(".tag, .tech, .technology, .badge").Each(func(_ int, t *goquery.Selection) {
			if tech := strings.TrimSpace(t.Text()); tech != "" {
				project.Technologies = append(project.Technologies, tech)
			}
		})
		projects = append(projects, project)
	})

	return projects
}

// ExtractPosts pulls blog-post records out of a page via selector
// heuristics.
func ExtractPosts(htmlContent, baseURL string) []types.WebsitePost {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var posts []types.WebsitePost
	doc.Find(".post, .blog-item, .blog-post, article.post").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h2, h3, .post-title, .title").First().Text())
		if title == "" {
			return
		}
		post := types.WebsitePost{
			Title: title,
			Date:  strings.TrimSpace(s.Find("time, .date, .post-date").First().Text()),
		}
		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			post.URL = resolveURL(baseURL, href)
		}
		posts = append(posts, post)
	})

	return posts
}

// ExtractTestimonials pulls testimonial records out of a page via selector
// heuristics.
func ExtractTestimonials(htmlContent string) []types.WebsiteTestimonial {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var testimonials []types.WebsiteTestimonial
	doc.Find(".testimonial, blockquote.testimonial, .recommendation").Each(func(_ int, s *goquery.Selection) {
		quote := strings.TrimSpace(s.Find("p, .quote, blockquote").First().Text())
		if quote == "" {
			quote = strings.TrimSpace(s.Text())
		}
		if quote == "" {
			return
		}
		testimonials = append(testimonials, types.WebsiteTestimonial{
			Quote:  quote,
			Author: strings.TrimSpace(s.Find("cite, .author, .testimonial-author").First().Text()),
		})
	})

	return testimonials
}

// dedupProjects removes duplicate names (homepage and portfolio page often
// list the same projects) and applies the cap.
func dedupProjects(projects []types.WebsiteProject, max int) []types.WebsiteProject {
	seen := make(map[string]bool, len(projects))
	out := make([]types.WebsiteProject, 0, len(projects))
	for _, p := range projects {
		key := strings.ToLower(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
		if len(out) >= max {
			break
		}
	}
	return out
}

func resolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
