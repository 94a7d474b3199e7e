// Package normalize holds the extraction helpers shared by the provider
// status parsers. Every helper degrades to a default instead of failing.
package normalize

import (
	"strings"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
)

// Evidence is what a provider document says about its lifecycle, in the
// provider's own vocabulary.
type Evidence struct {
	// State is an explicit runtime state string, e.g. "successful".
	State string
	// States overrides MapPhase for State values whose meaning is specific
	// to the provider. Keys are matched the way MapPhase matches.
	States map[string]deployment.Phase
	// Phase is a generic phase string, e.g. "Pending".
	Phase string
	// Conditions are the parsed status conditions.
	Conditions []deployment.Condition
	// ReadyCondition names the condition that signals readiness. Defaults
	// to "Ready".
	ReadyCondition string
	// Deleting is set when the object carries a deletion timestamp.
	Deleting bool
}

// ResolvePhase maps provider evidence onto the canonical phase. An explicit
// running state wins over a generic phase, which wins over a ready
// condition. No evidence at all yields Pending.
func ResolvePhase(ev Evidence) deployment.Phase {
	if ev.Deleting {
		return deployment.PhaseTerminating
	}

	state, stateKnown := ev.mapState()
	if stateKnown && state == deployment.PhaseRunning {
		return deployment.PhaseRunning
	}
	if phase, ok := MapPhase(ev.Phase); ok {
		return phase
	}
	if stateKnown {
		return state
	}

	readyType := ev.ReadyCondition
	if readyType == "" {
		readyType = "Ready"
	}
	if cond := FindCondition(ev.Conditions, readyType); cond != nil {
		if cond.Status == deployment.ConditionTrue {
			return deployment.PhaseRunning
		}
		return deployment.PhaseDeploying
	}
	if len(ev.Conditions) > 0 {
		return deployment.PhaseDeploying
	}
	return deployment.PhasePending
}

func (ev Evidence) mapState() (deployment.Phase, bool) {
	if phase, ok := ev.States[phaseKey(ev.State)]; ok {
		return phase, true
	}
	return MapPhase(ev.State)
}

var phaseKeyReplacer = strings.NewReplacer("_", "", "-", "", " ", "")

func phaseKey(s string) string {
	return phaseKeyReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// MapPhase maps a runtime state or phase string onto the canonical phase.
// Matching ignores case, underscores, dashes and spaces.
func MapPhase(s string) (deployment.Phase, bool) {
	key := phaseKey(s)
	switch key {
	case "":
		return "", false
	case "running", "ready", "successful", "succeeded", "deployed", "healthy", "available":
		return deployment.PhaseRunning, true
	case "pending", "notstarted":
		return deployment.PhasePending, true
	case "deploying", "creating", "initializing", "progressing", "updating", "upgrading",
		"restarting", "starting", "provisioning", "inprogress", "waitforservedeploymentready":
		return deployment.PhaseDeploying, true
	case "failed", "error", "deployfailed", "unhealthy":
		return deployment.PhaseFailed, true
	case "terminating", "deleting":
		return deployment.PhaseTerminating, true
	}
	if strings.HasPrefix(key, "failed") {
		return deployment.PhaseFailed, true
	}
	return "", false
}
