package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/Belphemur/ShowFinder/internal/models"
)

var fragments = template.Must(
	template.New("fragments").
		Funcs(template.FuncMap{"summary": SanitizeSummary}).
		ParseFS(templateFS, "templates/fragments/*.html"),
)

// ShowFragment renders one show. The fragment carries the show id in
// data-show-id and a control posting to /shows/{id}/episodes.
func ShowFragment(show models.Show) (string, error) {
	return execute("show", show)
}

// EpisodeFragment renders one episode as "name, (season S, number N)".
func EpisodeFragment(episode models.Episode) (string, error) {
	return execute("episode", episode)
}

// DisplayShows replaces the content of area with one fragment per show.
func DisplayShows(area *Region, shows []models.Show) error {
	return display(area, shows, ShowFragment)
}

// DisplayEpisodes replaces the content of area with one fragment per episode.
func DisplayEpisodes(area *Region, episodes []models.Episode) error {
	return display(area, episodes, EpisodeFragment)
}

// display builds every fragment before touching area, so a failure leaves it as it was.
func display[T any](area *Region, records []T, fragment func(T) (string, error)) error {
	built := make([]string, 0, len(records))
	for i, record := range records {
		f, err := fragment(record)
		if err != nil {
			return fmt.Errorf("render record %d: %w", i, err)
		}
		built = append(built, f)
	}

	area.Clear()
	for _, f := range built {
		area.Append(f)
	}
	return nil
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
