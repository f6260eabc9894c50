// Package sites is the static table of hosts the bot trusts, mapped to the
// pure extraction function that pulls an answer out of each site's pages.
package sites

import (
	"net/url"
	"sort"
	"strings"

	"github.com/use-agent/laodeai/models"
)

// Site identifies one extraction rule.
type Site int

const (
	StackOverflow Site = iota + 1
	StackExchange
	Gist
	Wikipedia
	WikiHow
	FoodNetwork
	KnowYourMeme
	UrbanDictionary
	BonAppetit
	CookingNYTimes
)

var siteNames = map[Site]string{
	StackOverflow:   "stackoverflow",
	StackExchange:   "stackexchange",
	Gist:            "gist",
	Wikipedia:       "wikipedia",
	WikiHow:         "wikihow",
	FoodNetwork:     "foodnetwork",
	KnowYourMeme:    "knowyourmeme",
	UrbanDictionary: "urbandictionary",
	BonAppetit:      "bonappetit",
	CookingNYTimes:  "cooking_nytimes",
}

func (s Site) String() string {
	if name, ok := siteNames[s]; ok {
		return name
	}
	return "unknown"
}

// AllSites lists every Site in declaration order.
func AllSites() []Site {
	return []Site{
		StackOverflow, StackExchange, Gist, Wikipedia, WikiHow,
		FoodNetwork, KnowYourMeme, UrbanDictionary, BonAppetit, CookingNYTimes,
	}
}

// stackExchangeCommunities are the *.stackexchange.com sites on the allowlist.
var stackExchangeCommunities = []string{
	"gamedev", "gaming", "webapps", "photo", "stats",
	"anime", "japanese",
	"cooking", "webmasters", "english", "math", "apple", "diy", "ux",
	"cstheory", "money", "softwareengineering", "scifi", "workplace",
	"security", "worldbuilding", "literature", "rpg", "academia",
	"electronics", "retrocomputing", "puzzling", "travel", "graphicdesign",
	"networkengineering", "islam", "dba",
}

func defaultHosts() map[string]Site {
	hosts := map[string]Site{
		"stackoverflow.com":   StackOverflow,
		"gist.github.com":     Gist,
		"en.wikipedia.org":    Wikipedia,
		"wikihow.com":         WikiHow,
		"foodnetwork.com":     FoodNetwork,
		"serverfault.com":     StackExchange,
		"superuser.com":       StackExchange,
		"askubuntu.com":       StackExchange,
		"mathoverflow.net":    StackExchange,
		"knowyourmeme.com":    KnowYourMeme,
		"urbandictionary.com": UrbanDictionary,
		"bonappetit.com":      BonAppetit,
		"cooking.nytimes.com": CookingNYTimes,
	}
	for _, community := range stackExchangeCommunities {
		hosts[community+".stackexchange.com"] = StackExchange
	}
	return hosts
}

func defaultExtractors() map[Site]models.ExtractFunc {
	return map[Site]models.ExtractFunc{
		StackOverflow:   extractStackOverflow,
		StackExchange:   extractStackExchange,
		Gist:            extractGist,
		Wikipedia:       extractWikipedia,
		WikiHow:         extractWikiHow,
		FoodNetwork:     extractFoodNetwork,
		KnowYourMeme:    extractKnowYourMeme,
		UrbanDictionary: extractUrbanDictionary,
		BonAppetit:      extractBonAppetit,
		CookingNYTimes:  extractCookingNYTimes,
	}
}

// Registry maps normalized hostnames to extraction functions. It is built
// once and never mutated, so it is safe to share between goroutines.
type Registry struct {
	hosts      map[string]Site
	extractors map[Site]models.ExtractFunc
}

// NewRegistry returns the registry holding the full allowlist.
func NewRegistry() *Registry {
	return &Registry{
		hosts:      defaultHosts(),
		extractors: defaultExtractors(),
	}
}

// NewRegistryFrom builds a registry from explicit tables. Hosts whose site
// has no extractor are dropped.
func NewRegistryFrom(hosts map[string]Site, extractors map[Site]models.ExtractFunc) *Registry {
	r := &Registry{
		hosts:      make(map[string]Site, len(hosts)),
		extractors: make(map[Site]models.ExtractFunc, len(extractors)),
	}
	for site, fn := range extractors {
		r.extractors[site] = fn
	}
	for host, site := range hosts {
		if _, ok := r.extractors[site]; ok {
			r.hosts[NormalizeHost(host)] = site
		}
	}
	return r
}

// NormalizeHost lower-cases a hostname and strips a leading "www.".
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// Lookup returns the Site for a hostname.
func (r *Registry) Lookup(host string) (Site, bool) {
	site, ok := r.hosts[NormalizeHost(host)]
	return site, ok
}

// Extractor returns the extraction function for a hostname.
func (r *Registry) Extractor(host string) (models.ExtractFunc, bool) {
	site, ok := r.Lookup(host)
	if !ok {
		return nil, false
	}
	fn, ok := r.extractors[site]
	return fn, ok
}

// Hosts returns the registered hostnames, sorted.
func (r *Registry) Hosts() []string {
	hosts := make([]string, 0, len(r.hosts))
	for h := range r.hosts {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// Len returns the number of registered hostnames.
func (r *Registry) Len() int {
	return len(r.hosts)
}

// Candidates keeps the links whose hostname is registered, preserving
// order. Links that are not absolute http(s) URLs are skipped.
func (r *Registry) Candidates(links []*url.URL) []models.Candidate {
	var out []models.Candidate
	for _, u := range links {
		if u == nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
			continue
		}
		host := NormalizeHost(u.Hostname())
		if _, ok := r.hosts[host]; !ok {
			continue
		}
		out = append(out, models.Candidate{URL: u, Host: host})
	}
	return out
}
