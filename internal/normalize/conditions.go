package normalize

import (
	"fmt"
	"strings"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
)

// ParseConditions reads a Kubernetes-style condition list. Entries without
// a type are skipped; the result is never nil.
func ParseConditions(v any) []deployment.Condition {
	conditions := []deployment.Condition{}
	items, ok := manifest.AsSlice(v)
	if !ok {
		return conditions
	}
	for _, item := range items {
		m, ok := manifest.AsMap(item)
		if !ok {
			continue
		}
		c := manifest.Document(m)
		condType := c.String("type")
		if condType == "" {
			continue
		}
		conditions = append(conditions, deployment.Condition{
			Type:               condType,
			Status:             conditionStatus(c["status"]),
			Reason:             c.String("reason"),
			Message:            c.String("message"),
			LastTransitionTime: timestamp(c["lastTransitionTime"]),
		})
	}
	return conditions
}

// FindCondition returns the condition of the given type, if present.
func FindCondition(conditions []deployment.Condition, condType string) *deployment.Condition {
	for i := range conditions {
		if strings.EqualFold(conditions[i].Type, condType) {
			return &conditions[i]
		}
	}
	return nil
}

func conditionStatus(v any) deployment.ConditionStatus {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case bool:
		s = fmt.Sprint(val)
	}
	switch strings.ToLower(s) {
	case "true":
		return deployment.ConditionTrue
	case "false":
		return deployment.ConditionFalse
	default:
		return deployment.ConditionUnknown
	}
}

func timestamp(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}
