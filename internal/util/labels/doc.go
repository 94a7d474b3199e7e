// Package labels provides consistent labeling for resources compiled by
// kubefoundry.
//
// Labels follow the app.kubernetes.io recommended keys plus kubefoundry.io
// keys for the provider and deployment, built with a fluent builder.
package labels
