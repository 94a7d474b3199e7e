// Package k8sclient wraps k8s.io/client-go for applying compiled deployment
// bundles with Server-Side Apply, reading live provider resources and
// checking credential secrets.
package k8sclient
