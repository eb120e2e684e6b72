package fallback

import (
	"hash/fnv"
)

// ImageAnalysis is the result of analysing an uploaded picture.
type ImageAnalysis struct {
	Topic string   `json:"topic"`
	Tags  []string `json:"tags"`
}

var imageScenes = []ImageAnalysis{
	{
		Topic: "Đua xe tốc độ dưới ánh đèn neon thành phố về đêm",
		Tags:  []string{"Synthwave", "Dark", "Energetic", "Fast Tempo", "Analog Synth"},
	},
	{
		Topic: "Con đường rừng yên tĩnh trong sương sớm",
		Tags:  []string{"Ambient", "Relaxing", "Acoustic Guitar", "Flute", "Birdsong"},
	},
	{
		Topic: "Tiệc bãi biển sôi động cùng bạn bè dưới nắng",
		Tags:  []string{"Reggae", "Happy", "Uplifting", "Steel Drums", "Medium Tempo"},
	},
	{
		Topic: "Khám phá ngôi đền cổ xưa bí ẩn",
		Tags:  []string{"Cinematic", "Ominous", "Orchestral", "Duduk", "Percussion"},
	},
}

// AnalyzeImage picks one of the canned scenes. The choice depends only on the
// image bytes, so the same upload always yields the same scene.
func AnalyzeImage(data []byte) ImageAnalysis {
	h := fnv.New32a()
	_, _ = h.Write(data)
	scene := imageScenes[h.Sum32()%uint32(len(imageScenes))]
	return ImageAnalysis{Topic: scene.Topic, Tags: append([]string(nil), scene.Tags...)}
}
