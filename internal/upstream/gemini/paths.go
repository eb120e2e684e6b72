package gemini

// API path pieces for the Generative Language API.
const (
	// PathModels prefixes every model-scoped action.
	PathModels = "/v1beta/models/"
	// ActionGenerate is the non-streaming generation action.
	ActionGenerate = ":generateContent"
)

// BuildGeneratePath constructs the generateContent path for a model.
// Example: BuildGeneratePath("gemini-2.5-flash") -> "/v1beta/models/gemini-2.5-flash:generateContent"
func BuildGeneratePath(model string) string {
	return PathModels + model + ActionGenerate
}
