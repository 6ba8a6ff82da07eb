package deps

// catalog lists the optional add-ons offered after the core questions, in
// prompt order.
var catalog = []Package{
	{Name: "cors", Types: "@types/cors"},
	{Name: "morgan", Types: "@types/morgan"},
	{Name: "helmet"},
	{Name: "jsonwebtoken", Types: "@types/jsonwebtoken"},
	{Name: "bcrypt", Types: "@types/bcrypt"},
	{Name: "cookie-parser", Types: "@types/cookie-parser"},
	{Name: "multer", Types: "@types/multer"},
	{Name: "compression", Types: "@types/compression"},
	{Name: "zod"},
	{Name: "express-validator"},
}

// Catalog returns a copy of the add-on catalog.
func Catalog() []Package {
	out := make([]Package, len(catalog))
	copy(out, catalog)
	return out
}

// LookupAddOn finds an add-on by package name.
func LookupAddOn(name string) (Package, bool) {
	for _, pkg := range catalog {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return Package{}, false
}

// UnknownAddOns returns the names that are not in the catalog.
func UnknownAddOns(names []string) []string {
	var unknown []string
	for _, name := range names {
		if _, ok := LookupAddOn(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
