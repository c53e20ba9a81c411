package sources

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/fetch"
	"github.com/jonathan/cv-enricher/internal/types"
)

// LinkedInAdapter scrapes a public LinkedIn profile page. LinkedIn is
// treated as the highest-trust source downstream; the adapter itself only
// normalizes what the page exposes.
type LinkedInAdapter struct {
	options    *fetch.Options
	useBrowser bool
	log        *zap.Logger
}

// NewLinkedInAdapter creates a LinkedIn adapter. useBrowser enables the
// headless-browser fallback for pages that render client side.
func NewLinkedInAdapter(useBrowser bool, log *zap.Logger) *LinkedInAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &LinkedInAdapter{
		options:    fetch.DefaultOptions(),
		useBrowser: useBrowser,
		log:        log,
	}
}

// ID returns the source identifier.
func (a *LinkedInAdapter) ID() types.SourceID {
	return types.SourceLinkedIn
}

// Fetch scrapes the public profile. A missing profile URL or a 404 yields an
// empty payload; transport failures are returned to the caller.
func (a *LinkedInAdapter) Fetch(ctx context.Context, req Request) (*types.SourcePayload, error) {
	if req.LinkedInURL == "" {
		return &types.SourcePayload{LinkedIn: &types.LinkedInData{}}, nil
	}

	result, err := fetch.URL(ctx, req.LinkedInURL, a.options)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return &types.SourcePayload{LinkedIn: &types.LinkedInData{}}, nil
		}
		return nil, err
	}

	html := result.HTML
	if a.useBrowser {
		if text, _ := fetch.ExtractMainText(html, fetch.DefaultTextSelectors()); fetch.ShouldUseBrowser(text) {
			rendered, berr := fetch.WithBrowser(ctx, req.LinkedInURL, 30*time.Second)
			if berr != nil {
				a.log.Warn("linkedin browser render failed, using raw HTML", zap.Error(berr))
			} else {
				html = rendered
			}
		}
	}

	data := parseLinkedInProfile(html, req.LinkedInURL)
	return &types.SourcePayload{LinkedIn: data}, nil
}

// parseLinkedInProfile extracts the public-profile sections via DOM
// heuristics. Selector misses yield empty fields, never errors.
func parseLinkedInProfile(html, profileURL string) *types.LinkedInData {
	data := &types.LinkedInData{ProfileURL: profileURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return data
	}

	data.Headline = firstText(doc,
		".top-card-layout__headline",
		".top-card__headline",
		"h2.top-card-layout__headline")
	data.Summary = firstText(doc,
		".summary .core-section-container__content",
		"section.summary p",
		".about-section p")

	doc.Find(".experience-item, li.profile-section-card").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".experience-item__title, h3").First().Text())
		company := strings.TrimSpace(s.Find(".experience-item__subtitle, h4").First().Text())
		if title == "" && company == "" {
			return
		}
		data.Positions = append(data.Positions, types.LinkedInPosition{
			Company:   company,
			Title:     title,
			DateRange: strings.TrimSpace(s.Find(".date-range, .experience-item__duration").First().Text()),
			Summary:   strings.TrimSpace(s.Find(".show-more-less-text, p").First().Text()),
		})
	})

	doc.Find(".skills-section li, ul.skills li").Each(func(_ int, s *goquery.Selection) {
		skill := strings.TrimSpace(s.Text())
		if skill != "" {
			data.Skills = append(data.Skills, skill)
		}
	})

	doc.Find(".certifications-section li, li.certification-item").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find("h3, .certification-item__title").First().Text())
		if name == "" {
			return
		}
		data.Certifications = append(data.Certifications, types.LinkedInCertification{
			Name:      name,
			Issuer:    strings.TrimSpace(s.Find("h4, .certification-item__issuer").First().Text()),
			IssueDate: strings.TrimSpace(s.Find("time, .certification-item__date").First().Text()),
		})
	})

	return data
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			if text := strings.TrimSpace(s.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}
