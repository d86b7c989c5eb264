package label

// Label is a per-calendar tag events can carry. Code selects one of the 20
// predefined color slots the frontend renders; Color stores the resolved hex
// value so exports do not need the palette.
type Label struct {
	ID         string
	CalendarID string
	Name       string
	Code       int
	Color      string
	Visible    bool
}

const (
	MinCode = 1
	MaxCode = 20
)
