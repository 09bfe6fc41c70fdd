package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// Sample is one labeled evaluation text
type Sample struct {
	Text     string `json:"text"`
	Expected string `json:"expected"`
}

// LoadDataset reads a labeled dataset from a JSON file: an array of
// {text, expected} objects
func LoadDataset(path string) ([]Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var samples []Sample
	if err := json.Unmarshal(raw, &samples); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	for i, s := range samples {
		if s.Text == "" || s.Expected == "" {
			return nil, fmt.Errorf("sample %d is missing text or expected label", i)
		}
	}

	return samples, nil
}

// BuiltinDataset is the bundled labeled evaluation set, four texts per
// evaluated category.
var BuiltinDataset = []Sample{
	{Text: "Qué día tan increíble! Todo salió perfecto", Expected: "Alegría"},
	{Text: "Estoy tan feliz, me dieron el trabajo que quería", Expected: "Alegría"},
	{Text: "Hoy es el mejor día de mi vida", Expected: "Alegría"},
	{Text: "No puedo dejar de sonreír, recibí buenas noticias", Expected: "Alegría"},

	{Text: "Hoy se murió mi perro, lo extraño mucho", Expected: "Tristeza"},
	{Text: "Me siento muy solo, nadie me entiende", Expected: "Tristeza"},
	{Text: "Perdí a mi abuela hace un mes y sigo llorando", Expected: "Tristeza"},
	{Text: "Me dejó mi pareja y no sé cómo seguir", Expected: "Tristeza"},

	{Text: "Estoy furioso, me mintieron en la cara", Expected: "Enojo"},
	{Text: "No soporto la injusticia, me hierve la sangre", Expected: "Enojo"},
	{Text: "Me enfada que la gente sea tan irresponsable", Expected: "Enojo"},
	{Text: "Odio cuando me hacen perder el tiempo", Expected: "Enojo"},

	{Text: "Anoche vi una sombra en mi cuarto y no pude dormir", Expected: "Miedo"},
	{Text: "Tengo mucho miedo de lo que pueda pasar mañana", Expected: "Miedo"},
	{Text: "Me aterra pensar en el futuro", Expected: "Miedo"},
	{Text: "Escuché ruidos extraños en la noche y me paralicé", Expected: "Miedo"},

	{Text: "No puedo creerlo! Gané la lotería!", Expected: "Sorpresa"},
	{Text: "Qué sorpresa verte aquí! No me lo esperaba", Expected: "Sorpresa"},
	{Text: "Me quedé sin palabras cuando vi el resultado", Expected: "Sorpresa"},
	{Text: "Increíble! Nunca pensé que pasaría esto", Expected: "Sorpresa"},

	{Text: "Te amo con todo mi corazón, eres mi vida", Expected: "Amor"},
	{Text: "Cada día me enamoro más de ti", Expected: "Amor"},
	{Text: "Mi familia es lo más importante para mí", Expected: "Amor"},
	{Text: "Amo a mis hijos más que a nada en el mundo", Expected: "Amor"},

	{Text: "Jajaja me caí en la calle y todos me vieron", Expected: "Humor"},
	{Text: "Este meme está buenísimo, no puedo parar de reír", Expected: "Humor"},
	{Text: "Mi vida es un chiste, pero al menos me río", Expected: "Humor"},
	{Text: "Qué gracioso cuando se equivocó de puerta", Expected: "Humor"},

	{Text: "Nunca te rindas, cada día es una nueva oportunidad", Expected: "Inspiración"},
	{Text: "Cree en ti mismo y lograrás todo", Expected: "Inspiración"},
	{Text: "El éxito es la suma de pequeños esfuerzos", Expected: "Inspiración"},
	{Text: "Hoy es el día perfecto para empezar de nuevo", Expected: "Inspiración"},

	{Text: "El servicio de esta empresa es pésimo", Expected: "Queja"},
	{Text: "Me tienen harto con tanta ineficiencia", Expected: "Queja"},
	{Text: "No es posible que todo funcione tan mal", Expected: "Queja"},
	{Text: "Llevo horas esperando y nadie me atiende", Expected: "Queja"},
}
