package emotion

// Taxonomy is the fixed set of categories posts are scored against. The
// order matters only for client display; the classifier scores every label
// independently.
var Taxonomy = []string{
	// Basic emotions
	"Alegría", "Tristeza", "Enojo", "Miedo", "Sorpresa", "Asco",
	// Social emotions
	"Amor",
	// Content styles
	"Humor", "Inspiración", "Queja", "Reflexión",
	// Special
	"Sarcasmo",
}

// Score is one entry of a ranked classifier output
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Detection is one selected category with its presentation confidence
type Detection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}
