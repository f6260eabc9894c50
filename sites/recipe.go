package sites

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/laodeai/models"
)

// recipe is the part of a schema.org Recipe worth sending.
type recipe struct {
	Name        string
	Ingredients []string
	Steps       []string
}

func (r recipe) empty() bool {
	return len(r.Ingredients) == 0 && len(r.Steps) == 0
}

// String lays the recipe out as plain text for the image renderer.
func (r recipe) String() string {
	var b strings.Builder
	if r.Name != "" {
		b.WriteString(r.Name)
		b.WriteString("\n\n")
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("Ingredients:\n")
		for _, ing := range r.Ingredients {
			b.WriteString("- ")
			b.WriteString(ing)
			b.WriteByte('\n')
		}
	}
	if len(r.Steps) > 0 {
		if len(r.Ingredients) > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Directions:\n")
		for i, step := range r.Steps {
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
			b.WriteString(step)
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// recipeSelectors locate a recipe in site markup when the page carries no
// structured data.
type recipeSelectors struct {
	Title      string
	Ingredient string
	Step       string
	Skip       []string // ingredient labels that are UI, not food
}

var foodNetworkSelectors = recipeSelectors{
	Title:      ".o-AssetTitle__a-HeadlineText",
	Ingredient: ".o-Ingredients__a-Ingredient--CheckboxLabel",
	Step:       ".o-Method__m-Step",
	Skip:       []string{"Deselect All"},
}

var bonAppetitSelectors = recipeSelectors{
	Title:      `h1[data-testid="ContentHeaderHed"]`,
	Ingredient: `[data-testid="IngredientList"] .ingredient, [data-testid="IngredientList"] li`,
	Step:       `[data-testid="InstructionsWrapper"] li`,
}

var nytCookingSelectors = recipeSelectors{
	Title:      "h1",
	Ingredient: `[class*="ingredient_ingredient"], .recipe-ingredients li`,
	Step:       `[class*="preparation_step"] p, .recipe-steps li`,
}

func extractFoodNetwork(doc *goquery.Document) models.Extraction {
	return extractRecipe(doc, foodNetworkSelectors, "https://www.foodnetwork.com/")
}

func extractBonAppetit(doc *goquery.Document) models.Extraction {
	return extractRecipe(doc, bonAppetitSelectors, "https://www.bonappetit.com/")
}

func extractCookingNYTimes(doc *goquery.Document) models.Extraction {
	return extractRecipe(doc, nytCookingSelectors, "https://cooking.nytimes.com/")
}

// extractRecipe tries structured data, then site markup, then readability.
func extractRecipe(doc *goquery.Document, sel recipeSelectors, fallbackURL string) models.Extraction {
	if r, ok := recipeFromLD(doc); ok {
		return models.Image(r.String())
	}
	if r, ok := recipeFromMarkup(doc, sel); ok {
		return models.Image(r.String())
	}
	return readableImage(doc, fallbackURL)
}

func recipeFromMarkup(doc *goquery.Document, sel recipeSelectors) (recipe, bool) {
	r := recipe{Name: squash(doc.Find(sel.Title).First().Text())}
	doc.Find(sel.Ingredient).Each(func(_ int, s *goquery.Selection) {
		text := squash(s.Text())
		if text == "" || contains(sel.Skip, text) {
			return
		}
		r.Ingredients = append(r.Ingredients, text)
	})
	doc.Find(sel.Step).Each(func(_ int, s *goquery.Selection) {
		if text := squash(s.Text()); text != "" {
			r.Steps = append(r.Steps, text)
		}
	})
	return r, !r.empty()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// recipeFromLD reads the first schema.org Recipe in the page's JSON-LD
// blocks. Blocks may hold a single object, an array, or an @graph.
func recipeFromLD(doc *goquery.Document) (recipe, bool) {
	var found recipe
	var ok bool
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if node := findRecipeNode(data); node != nil {
			found = recipeFromNode(node)
			ok = !found.empty()
		}
		return !ok
	})
	return found, ok
}

func findRecipeNode(data any) map[string]any {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	case map[string]any:
		if isType(v["@type"], "Recipe") {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isType(t any, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func recipeFromNode(node map[string]any) recipe {
	r := recipe{Name: ldText(node["name"])}
	if list, ok := node["recipeIngredient"].([]any); ok {
		for _, item := range list {
			if s := ldText(item); s != "" {
				r.Ingredients = append(r.Ingredients, s)
			}
		}
	}
	r.Steps = ldSteps(node["recipeInstructions"], nil)
	return r
}

// ldSteps flattens recipeInstructions: a string, a list of strings,
// HowToStep objects, or HowToSection objects wrapping steps.
func ldSteps(v any, acc []string) []string {
	switch t := v.(type) {
	case string:
		if s := ldText(t); s != "" {
			acc = append(acc, s)
		}
	case []any:
		for _, item := range t {
			acc = ldSteps(item, acc)
		}
	case map[string]any:
		if items, ok := t["itemListElement"]; ok {
			return ldSteps(items, acc)
		}
		if s := ldText(t["text"]); s != "" {
			acc = append(acc, s)
		}
	}
	return acc
}

// ldText unescapes entities and collapses whitespace in a JSON-LD string.
func ldText(v any) string {
	s, _ := v.(string)
	return squash(html.UnescapeString(s))
}
