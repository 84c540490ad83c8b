// Package views renders the catalog pages. Every page is an html/template
// executed inside the shared layout, so interpolated record fields are always
// escaped for their HTML, attribute or URL context.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"movie-catalog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome      = "home.html"
	pageMovie     = "movie.html"
	pageNotFound  = "not_found.html"
	pageLogin     = "login.html"
	pageAdminList = "admin_list.html"
	pageMovieForm = "movie_form.html"
)

var pages map[string]*template.Template

func init() {
	funcs := template.FuncMap{
		"lines": lines,
	}

	pages = make(map[string]*template.Template)
	for _, page := range []string{pageHome, pageMovie, pageNotFound, pageLogin, pageAdminList, pageMovieForm} {
		pages[page] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		))
	}
}

// lines puts every item on its own line, newline-terminated so a single
// entry still reads back as one line.
func lines(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('\n')
	}
	return b.String()
}

func render(page string, data any) (string, error) {
	tmpl, ok := pages[page]
	if !ok {
		return "", fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", page, err)
	}
	return buf.String(), nil
}

// Home renders the public movie grid.
func Home(movies []models.Movie) (string, error) {
	return render(pageHome, struct{ Movies []models.Movie }{movies})
}

// MovieDetail renders a single movie with its screenshots and download link.
func MovieDetail(movie *models.Movie) (string, error) {
	return render(pageMovie, struct{ Movie *models.Movie }{movie})
}

func NotFound() (string, error) {
	return render(pageNotFound, nil)
}

// Login renders the credential form; failed shows the bad-credentials notice.
func Login(failed bool) (string, error) {
	return render(pageLogin, struct{ Failed bool }{failed})
}

func AdminList(movies []models.Movie) (string, error) {
	return render(pageAdminList, struct{ Movies []models.Movie }{movies})
}

// FormView describes an add or edit form.
type FormView struct {
	Heading        string
	Action         string
	Submit         string
	Movie          models.Movie
	UploadsEnabled bool
}

func NewMovieForm(uploads bool) FormView {
	return FormView{
		Heading:        "Add Movie",
		Action:         "/admin/add",
		Submit:         "Create",
		UploadsEnabled: uploads,
	}
}

func EditMovieForm(movie models.Movie, uploads bool) FormView {
	return FormView{
		Heading:        "Edit " + movie.Title,
		Action:         "/admin/edit/" + movie.ID,
		Submit:         "Save",
		Movie:          movie,
		UploadsEnabled: uploads,
	}
}

func MovieForm(form FormView) (string, error) {
	return render(pageMovieForm, form)
}
