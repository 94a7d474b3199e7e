package naming

import "fmt"

// Frontend ports.
const (
	DynamoFrontendPort  = 8000
	RayServePort        = 8000
	KAITOLlamaCppPort   = 80
	KAITOVLLMPort       = 8000
	KAITOVLLMTargetPort = 5000
)

func DynamoFrontend(name string) string {
	return fmt.Sprintf("%s-frontend", name)
}

func RayServeService(name string) string {
	return fmt.Sprintf("%s-serve-svc", name)
}

func KAITOService(name string) string {
	return name
}

func KAITOVLLMService(name string) string {
	return fmt.Sprintf("%s-vllm", name)
}

func HTTPRoute(name string) string {
	return fmt.Sprintf("%s-route", name)
}

// ServiceAddress returns the in-cluster address of a service.
func ServiceAddress(service, namespace string, port int) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local:%d", service, namespace, port)
}
