package food

import "github.com/invopop/jsonschema"

// foodInfo is the structured-output contract the model must fill in.
type foodInfo struct {
	Found           bool    `json:"found" jsonschema_description:"False when the query is not a recognizable food product."`
	Name            string  `json:"name" jsonschema_description:"Canonical product name, in the language of the query."`
	CaloriesPer100g float64 `json:"calories_per_100g" jsonschema_description:"Typical energy value of the product in kcal per 100 grams."`
	Glyph           string  `json:"glyph" jsonschema_description:"One emoji representing the product, e.g. 🍌 for a banana."`
}

func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var foodInfoSchema = GenerateSchema[foodInfo]()
