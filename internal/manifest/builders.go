package manifest

import (
	"strconv"
)

const (
	// ResourceGPU is the extended resource name of an NVIDIA GPU.
	ResourceGPU = "nvidia.com/gpu"

	// HFTokenKey is the key inside the credential secret and the env var name
	// the runtimes read it from.
	HFTokenKey = "HF_TOKEN"
)

// Object returns the apiVersion, kind and metadata block shared by every
// document.
func Object(apiVersion, kind, name, namespace string, labels, annotations map[string]string) Document {
	metadata := Document{
		"name":      name,
		"namespace": namespace,
	}
	if len(labels) > 0 {
		metadata["labels"] = stringMap(labels)
	}
	if len(annotations) > 0 {
		metadata["annotations"] = stringMap(annotations)
	}
	return Document{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata":   metadata,
	}
}

// ResourceRequirements writes matching requests and limits for a container.
// gpuKey selects the resource name for the GPU count; gpus of zero omits it.
func ResourceRequirements(gpuKey string, gpus int, memory string) Document {
	amounts := func() Document {
		out := Document{}
		if gpus > 0 {
			out[gpuKey] = strconv.Itoa(gpus)
		}
		if memory != "" {
			out["memory"] = memory
		}
		return out
	}
	return Document{
		"requests": amounts(),
		"limits":   amounts(),
	}
}

// SecretEnv returns an env list that reads the token from a secret key.
// An empty secret name yields nil.
func SecretEnv(secretName string) []any {
	if secretName == "" {
		return nil
	}
	return []any{
		Document{
			"name": HFTokenKey,
			"valueFrom": Document{
				"secretKeyRef": Document{
					"name": secretName,
					"key":  HFTokenKey,
				},
			},
		},
	}
}

// NodeSelector returns a label selector in matchLabels form.
func NodeSelector(labels map[string]string) Document {
	return Document{"matchLabels": stringMap(labels)}
}

func stringMap(in map[string]string) Document {
	out := make(Document, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
