package model

// CategoryItem - node trong category tree của admin form
type CategoryItem struct {
	Name     string         `json:"name"`
	Children []CategoryItem `json:"children,omitempty"`
}

// CategoryTree - fixed catalog structure phục vụ admin form và storefront nav
var CategoryTree = []CategoryItem{
	{
		Name: "Gemstones & Crystals",
		Children: []CategoryItem{
			{
				Name: "Loose Gemstones",
				Children: []CategoryItem{
					{Name: "Cabochons"},
					{Name: "Faceted Gems"},
					{Name: "Raw / Rough Stones"},
					{Name: "Tumbled Stones"},
					{Name: "Slices / Slabs"},
					{Name: "Carved Stones"},
					{Name: "Gemstone Beads (Drilled)"},
				},
			},
			{
				Name: "Spiritual & Healing",
				Children: []CategoryItem{
					{Name: "Chakra Stones"},
					{Name: "Reiki Energy Crystals"},
					{Name: "Meditation Stones"},
					{Name: "Palm / Worry Stones"},
					{Name: "Crystal Sets / Kits"},
				},
			},
			{
				Name: "Home & Decor",
				Children: []CategoryItem{
					{Name: "Crystal Towers / Points"},
					{Name: "Spheres / Balls"},
					{Name: "Geodes & Clusters"},
					{Name: "Sculptures & Figurines"},
				},
			},
		},
	},
	{
		Name: "Jewelry",
		Children: []CategoryItem{
			{Name: "Rings"},
			{Name: "Pendants"},
			{Name: "Bracelets"},
			{Name: "Necklaces"},
			{Name: "Earrings"},
		},
	},
	{
		Name: "Islamic & Traditional Stones",
		Children: []CategoryItem{
			{Name: "Aqeeq Stones"},
			{Name: "Yemeni Aqeeq"},
			{Name: "Sulemani Hakik"},
			{Name: "Feroza (Turquoise)"},
			{Name: "Durr-e-Najaf"},
		},
	},
}

// CategoryNames - top-level category names theo thứ tự của tree
func CategoryNames() []string {
	names := make([]string, 0, len(CategoryTree))
	for _, c := range CategoryTree {
		names = append(names, c.Name)
	}
	return names
}

// SubcategoryNames returns the direct children of a top-level category.
func SubcategoryNames(category string) []string {
	for _, c := range CategoryTree {
		if c.Name != category {
			continue
		}
		names := make([]string, 0, len(c.Children))
		for _, sub := range c.Children {
			names = append(names, sub.Name)
		}
		return names
	}
	return nil
}
