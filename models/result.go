package models

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Kind tags the variant held by an Extraction.
type Kind int

const (
	// KindError means the page did not contain a usable answer.
	KindError Kind = iota
	// KindText is sanitizable markup sent as an HTML message.
	KindText
	// KindImage is plain text rendered to a picture before sending.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "error"
	}
}

// Extraction is the output of one site extraction function.
// URL is filled in by the resolver, never by the extraction function.
type Extraction struct {
	Kind    Kind
	URL     string
	Content string
}

// Text builds a KindText extraction.
func Text(content string) Extraction {
	return Extraction{Kind: KindText, Content: content}
}

// Image builds a KindImage extraction.
func Image(content string) Extraction {
	return Extraction{Kind: KindImage, Content: content}
}

// Failed is the payload-free error variant.
func Failed() Extraction {
	return Extraction{Kind: KindError}
}

// OK reports whether the extraction carries an answer.
func (e Extraction) OK() bool {
	return e.Kind == KindText || e.Kind == KindImage
}

// ExtractFunc maps a parsed page to an Extraction. Implementations must be
// pure: no I/O, no mutation of doc, same input gives the same output.
type ExtractFunc func(doc *goquery.Document) Extraction

// Candidate is a search result link whose hostname has a registered
// extraction function.
type Candidate struct {
	URL  *url.URL
	Host string // hostname with a leading "www." removed
}

// Href returns the absolute URL string.
func (c Candidate) Href() string {
	return c.URL.String()
}
