package kaito

import (
	"sort"
	"strings"

	"github.com/huandu/xstrings"
)

const imageRepository = "ghcr.io/kaito-project/aikit"

// PremadeModel is an AIKit image with the model weights baked in.
type PremadeModel struct {
	ModelID string
	Image   string
	Tag     string
}

// Reference returns the full image reference.
func (m PremadeModel) Reference() string {
	return imageRepository + "/" + m.Image + ":" + m.Tag
}

var catalog = []PremadeModel{
	{ModelID: "meta-llama/Llama-3.2-1B-Instruct", Image: "llama3.2", Tag: "1b"},
	{ModelID: "meta-llama/Llama-3.2-3B-Instruct", Image: "llama3.2", Tag: "3b"},
	{ModelID: "meta-llama/Llama-3.1-8B-Instruct", Image: "llama3.1", Tag: "8b"},
	{ModelID: "mistralai/Mistral-7B-Instruct-v0.3", Image: "mistral", Tag: "7b"},
	{ModelID: "microsoft/Phi-3.5-mini-instruct", Image: "phi3.5", Tag: "3.8b"},
	{ModelID: "microsoft/phi-4", Image: "phi4", Tag: "14b"},
	{ModelID: "google/gemma-2-2b-it", Image: "gemma2", Tag: "2b"},
	{ModelID: "Qwen/QwQ-32B", Image: "qwq", Tag: "32b"},
}

// Catalog returns the premade models sorted by model id.
func Catalog() []PremadeModel {
	out := append([]PremadeModel(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out
}

// LookupPremade finds the premade image of a model id. Matching ignores case.
func LookupPremade(modelID string) (PremadeModel, bool) {
	for _, m := range catalog {
		if strings.EqualFold(m.ModelID, modelID) {
			return m, true
		}
	}
	return PremadeModel{}, false
}

// ModelForImage reverses LookupPremade from an image reference.
func ModelForImage(image string) (PremadeModel, bool) {
	repo, _, nameTag := xstrings.LastPartition(image, "/")
	if repo != imageRepository {
		return PremadeModel{}, false
	}
	name, _, tag := xstrings.Partition(nameTag, ":")
	for _, m := range catalog {
		if m.Image == name && m.Tag == tag {
			return m, true
		}
	}
	return PremadeModel{}, false
}
