// Package templates holds the HTML pages of the order portal.
package templates

import (
	"embed"
	"html/template"
	"slices"

	"github.com/kendall-kelly/tailoring-orders-portal/views"
)

//go:embed *.html
var files embed.FS

var groupTitles = map[views.Group]string{
	views.GroupDetails:      "Order Details",
	views.GroupGarment:      "Garment",
	views.GroupStandardSize: "Standard Size",
	views.GroupMeasurements: "Custom Measurements",
	views.GroupMale:         "Male Styling",
	views.GroupFemale:       "Female Styling",
}

// Parse returns every portal page, ready for gin's SetHTMLTemplate
func Parse() (*template.Template, error) {
	return template.New("portal").Funcs(Funcs()).ParseFS(files, "*.html")
}

// Funcs are the helpers available to portal pages
func Funcs() template.FuncMap {
	return template.FuncMap{
		"options":    SelectOptions,
		"groupTitle": GroupTitle,
	}
}

// SelectOptions returns the choices for a select field. A stored value the
// catalog no longer lists is kept so saving the form does not silently
// change it.
func SelectOptions(f views.FieldView) []string {
	if f.Value == "" || slices.Contains(f.Options, f.Value) {
		return f.Options
	}
	return append(slices.Clone(f.Options), f.Value)
}

// GroupTitle is the heading shown above a field group
func GroupTitle(g views.Group) string {
	if title, ok := groupTitles[g]; ok {
		return title
	}
	return string(g)
}
