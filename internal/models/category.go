package models

// CategoryRule is one keyword rule. Rules are evaluated in slice order and
// the first rule with a matching keyword wins.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryRule `yaml:"categories"`
}

// MerchantsConfig represents the structure of the merchant map YAML file.
type MerchantsConfig struct {
	Merchants map[string]string `yaml:"merchants"`
}
