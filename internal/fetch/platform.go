// Package fetch - platform.go provides document host detection and host-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known document hosting platform.
type Platform string

const (
	// PlatformNotion is a published Notion page
	PlatformNotion Platform = "notion"
	// PlatformConfluence is an Atlassian Confluence wiki page
	PlatformConfluence Platform = "confluence"
	// PlatformGitHub is a README or markdown file rendered by GitHub
	PlatformGitHub Platform = "github"
	// PlatformGoogleDocs is a Google Docs document published to the web
	PlatformGoogleDocs Platform = "google_docs"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the document platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.HasSuffix(host, "notion.site") || strings.HasSuffix(host, "notion.so"):
		return PlatformNotion
	case strings.HasSuffix(host, "atlassian.net") || strings.Contains(host, "confluence"):
		return PlatformConfluence
	case host == "github.com" || strings.HasSuffix(host, ".github.com"):
		return PlatformGitHub
	case host == "docs.google.com":
		return PlatformGoogleDocs
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformNotion:
		return []string{".notion-page-content", ".notion-frame", "main"}
	case PlatformConfluence:
		return []string{"#main-content .wiki-content", ".wiki-content", "#content"}
	case PlatformGitHub:
		return []string{"article.markdown-body", ".markdown-body", "main"}
	case PlatformGoogleDocs:
		return []string{"#contents", ".doc-content", "body"}
	default:
		return DocumentSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		// Social and share buttons
		".social-share",
		".share-buttons",
		// Cookie and GDPR
		".cookie-consent",
		".gdpr-notice",
		// Comments
		".comments",
		"#comments",
	}

	switch platform {
	case PlatformNotion:
		return append(common, ".notion-topbar", ".notion-sidebar")
	case PlatformConfluence:
		return append(common, "#likes-and-labels-container", ".page-metadata", "#breadcrumb-section")
	case PlatformGitHub:
		return append(common, ".file-navigation", ".BorderGrid", ".js-header-wrapper")
	case PlatformGoogleDocs:
		return append(common, "#banners", "#footer")
	default:
		return common
	}
}
