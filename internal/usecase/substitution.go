package usecase

import "sort"

// SubstitutionTable maps an ingredient to the ordered list of ingredients that can stand in for it
type SubstitutionTable map[string][]string

// defaultSubstitutions is the built-in table. It is only ever copied, never handed out.
var defaultSubstitutions = SubstitutionTable{
	"milk":            {"almond milk", "soy milk", "oat milk", "coconut milk"},
	"butter":          {"margarine", "coconut oil", "vegetable oil", "olive oil"},
	"eggs":            {"flax eggs", "chia eggs", "applesauce", "mashed banana"},
	"sugar":           {"honey", "maple syrup", "agave nectar", "stevia"},
	"flour":           {"almond flour", "coconut flour", "oat flour", "rice flour"},
	"heavy cream":     {"coconut cream", "half and half", "evaporated milk"},
	"sour cream":      {"greek yogurt", "plain yogurt", "cream cheese"},
	"buttermilk":      {"milk and lemon juice", "yogurt", "kefir"},
	"yogurt":          {"greek yogurt", "sour cream", "coconut yogurt"},
	"brown sugar":     {"white sugar", "coconut sugar", "maple syrup"},
	"lemon juice":     {"lime juice", "white vinegar", "apple cider vinegar"},
	"vinegar":         {"lemon juice", "lime juice"},
	"chicken broth":   {"vegetable broth", "beef broth", "chicken stock"},
	"beef broth":      {"chicken broth", "vegetable broth", "beef stock"},
	"breadcrumbs":     {"panko", "crushed crackers", "rolled oats"},
	"rice":            {"quinoa", "cauliflower rice", "couscous"},
	"pasta":           {"zucchini noodles", "rice noodles", "spaghetti squash"},
	"onion":           {"shallot", "leek", "onion powder"},
	"garlic":          {"garlic powder", "shallot"},
	"parmesan":        {"pecorino", "nutritional yeast"},
	"baking powder":   {"baking soda and cream of tartar"},
	"cornstarch":      {"arrowroot", "potato starch", "flour"},
	"vegetable oil":   {"canola oil", "sunflower oil", "olive oil"},
	"fresh herbs":     {"dried herbs"},
	"soy sauce":       {"tamari", "coconut aminos"},
	"white wine":      {"chicken broth", "white grape juice"},
	"red wine":        {"beef broth", "red grape juice"},
	"ground beef":     {"ground turkey", "ground chicken", "lentils"},
	"cream cheese":    {"mascarpone", "ricotta"},
	"maple syrup":     {"honey", "agave nectar"},
	"honey":           {"maple syrup", "agave nectar"},
	"mayonnaise":      {"greek yogurt", "sour cream"},
	"bread":           {"tortillas", "pita"},
	"spinach":         {"kale", "swiss chard"},
	"cilantro":        {"parsley"},
	"shallot":         {"onion"},
	"chicken breast":  {"chicken thighs", "turkey breast", "tofu"},
	"cheddar cheese":  {"colby jack", "monterey jack", "gouda"},
	"mozzarella":      {"provolone", "fontina"},
	"tomato sauce":    {"tomato paste", "crushed tomatoes"},
	"bell pepper":     {"poblano pepper", "zucchini"},
	"baking soda":     {"baking powder"},

	"all-purpose flour": {"bread flour", "cake flour", "whole wheat flour"},
}

// DefaultSubstitutions returns a fresh copy of the built-in substitution table
func DefaultSubstitutions() SubstitutionTable {
	table := make(SubstitutionTable, len(defaultSubstitutions))
	for key, subs := range defaultSubstitutions {
		table[key] = append([]string(nil), subs...)
	}
	return table
}

// SubstitutionResolver answers single-hop substitution queries against an inventory index.
// It is read-only after construction.
type SubstitutionResolver struct {
	table map[string][]string
	keys  []string
}

// NewSubstitutionResolver normalizes the table and fixes a deterministic key order.
// A nil table yields a resolver that never substitutes.
func NewSubstitutionResolver(table SubstitutionTable) *SubstitutionResolver {
	r := &SubstitutionResolver{table: make(map[string][]string, len(table))}
	for key, subs := range table {
		name := normalizeName(key)
		if name == "" {
			continue
		}
		normalized := make([]string, 0, len(subs))
		for _, sub := range subs {
			if s := normalizeName(sub); s != "" {
				normalized = append(normalized, s)
			}
		}
		if _, seen := r.table[name]; !seen {
			r.keys = append(r.keys, name)
		}
		r.table[name] = append(r.table[name], normalized...)
	}
	sort.Strings(r.keys)
	return r
}

// Forward returns the first listed substitute for name that is in stock
func (r *SubstitutionResolver) Forward(name string, idx *InventoryIndex) (string, bool) {
	for _, sub := range r.table[name] {
		if idx.Contains(sub) {
			return sub, true
		}
	}
	return "", false
}

// Reverse returns the first table entry, in key order, that lists name as a substitute and is in stock
func (r *SubstitutionResolver) Reverse(name string, idx *InventoryIndex) (string, bool) {
	for _, key := range r.keys {
		if !idx.Contains(key) {
			continue
		}
		for _, sub := range r.table[key] {
			if sub == name {
				return key, true
			}
		}
	}
	return "", false
}

// Resolve tries the forward direction first, then the reverse direction
func (r *SubstitutionResolver) Resolve(name string, idx *InventoryIndex) (string, bool) {
	if sub, ok := r.Forward(name, idx); ok {
		return sub, true
	}
	return r.Reverse(name, idx)
}
