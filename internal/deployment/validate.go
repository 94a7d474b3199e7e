package deployment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const (
	// DefaultNamespace is used when the input does not name one.
	DefaultNamespace = "default"

	// MaxReplicas bounds every replica count.
	MaxReplicas = 10
)

var engineArgKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// FieldError is one validation failure, addressed by the dotted path of the
// input field it belongs to.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders the error as "path: message".
func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationError carries every field error of a rejected input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.String())
	}
	return "invalid deployment: " + strings.Join(parts, "; ")
}

// Result is the outcome of Validate. Exactly one of Errors and Spec is set.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
	Spec   *Spec        `json:"data,omitempty"`
}

// Err returns a *ValidationError for an invalid result and nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// Rule is a provider-specific validation step. It reads its own fields from
// the input and writes them into the partially built spec.
type Rule func(r *Reader, spec *Spec)

// Profile parameterises the shared base rules for one provider.
type Profile struct {
	// Engines lists the accepted engines; the first is the default.
	Engines []Engine
	// Disaggregation reports whether disaggregated mode is supported.
	Disaggregation bool
	// Rules run after the base rules.
	Rules []Rule
}

// DefaultProfile accepts every engine served by a GPU runtime.
func DefaultProfile() Profile {
	return Profile{
		Engines:        []Engine{EngineVLLM, EngineSGLang, EngineTRTLLM},
		Disaggregation: true,
	}
}

// Validate turns untyped input into a defaulted Spec or a list of field
// errors. It performs no I/O and never panics on malformed input.
func Validate(raw map[string]any, profile Profile) Result {
	if len(profile.Engines) == 0 {
		profile.Engines = DefaultProfile().Engines
	}

	r := NewReader(raw)
	spec := &Spec{}

	validateIdentity(r, spec)
	validateExecution(r, spec, profile)
	validateSizing(r, spec)
	validateRuntimeFlags(r, spec)
	validateGateway(r, spec)

	for _, rule := range profile.Rules {
		rule(r, spec)
	}

	if errs := r.Errors(); len(errs) > 0 {
		return Result{Valid: false, Errors: toFieldErrors(errs)}
	}
	return Result{Valid: true, Spec: spec}
}

func validateIdentity(r *Reader, spec *Spec) {
	spec.Name = r.String("name", "")
	if spec.Name == "" {
		r.Add(field.Required(r.Path("name"), "name is required"))
	} else {
		for _, msg := range validation.IsDNS1123Label(spec.Name) {
			r.Add(field.Invalid(r.Path("name"), spec.Name, msg))
		}
	}

	spec.Namespace = r.String("namespace", DefaultNamespace)
	for _, msg := range validation.IsDNS1123Label(spec.Namespace) {
		r.Add(field.Invalid(r.Path("namespace"), spec.Namespace, msg))
	}

	spec.ModelID = r.String("modelId", "")
	if spec.ModelID == "" {
		r.Add(field.Required(r.Path("modelId"), "model id is required"))
	}
	spec.ServedModelName = r.String("servedModelName", "")
}

func validateExecution(r *Reader, spec *Spec, profile Profile) {
	spec.Engine = Engine(r.String("engine", string(profile.Engines[0])))
	if !engineAllowed(spec.Engine, profile.Engines) {
		r.Add(field.NotSupported(r.Path("engine"), spec.Engine, profile.Engines))
	}

	spec.Mode = Mode(r.String("mode", string(ModeAggregated)))
	switch {
	case !spec.Mode.IsValid():
		r.Add(field.NotSupported(r.Path("mode"), spec.Mode, ValidModes()))
	case spec.Mode == ModeDisaggregated && !profile.Disaggregation:
		r.Add(field.Invalid(r.Path("mode"), spec.Mode, "disaggregated mode is not supported by this provider"))
	}

	spec.RouterMode = RouterMode(r.String("routerMode", string(RouterModeNone)))
	if !spec.RouterMode.IsValid() {
		r.Add(field.NotSupported(r.Path("routerMode"), spec.RouterMode, ValidRouterModes()))
	}
}

func validateSizing(r *Reader, spec *Spec) {
	spec.Replicas = r.IntInRange("replicas", 1, 1, MaxReplicas)

	res := r.Child("resources")
	spec.Resources.GPU = res.IntInRange("gpu", 1, 1, 0)
	spec.Resources.Memory = res.String("memory", "")
	if spec.Resources.Memory != "" {
		if _, err := resource.ParseQuantity(spec.Resources.Memory); err != nil {
			r.Add(field.Invalid(res.Path("memory"), spec.Resources.Memory, "must be a Kubernetes quantity such as 16Gi"))
		}
	}

	spec.PrefillReplicas = r.IntInRange("prefillReplicas", 1, 1, MaxReplicas)
	spec.DecodeReplicas = r.IntInRange("decodeReplicas", 1, 1, MaxReplicas)
	spec.PrefillGPUs = r.IntInRange("prefillGpus", 1, 1, 0)
	spec.DecodeGPUs = r.IntInRange("decodeGpus", 1, 1, 0)
}

func validateRuntimeFlags(r *Reader, spec *Spec) {
	spec.EnforceEager = r.Bool("enforceEager", true)
	spec.EnablePrefixCaching = r.Bool("enablePrefixCaching", false)
	spec.TrustRemoteCode = r.Bool("trustRemoteCode", false)
	spec.ContextLength = r.OptionalPositiveInt("contextLength")
	spec.Gated = r.Bool("gated", false)

	spec.HFTokenSecret = r.String("hfTokenSecret", "")
	if spec.HFTokenSecret != "" {
		for _, msg := range validation.IsDNS1123Subdomain(spec.HFTokenSecret) {
			r.Add(field.Invalid(r.Path("hfTokenSecret"), spec.HFTokenSecret, msg))
		}
	} else if spec.Gated || IsGatedModel(spec.ModelID) {
		r.Add(field.Required(r.Path("hfTokenSecret"), "a Hugging Face token secret is required for gated models"))
	}

	if args := r.Map("engineArgs"); args != nil {
		spec.EngineArgs = make(map[string]any, len(args))
		for _, key := range sortedKeys(args) {
			path := r.Path("engineArgs").Key(key)
			if !engineArgKeyRegex.MatchString(key) {
				r.Add(field.Invalid(path, key, "must be a flag name of letters, digits, '-' or '_'"))
				continue
			}
			v, ok := scalar(args[key])
			if !ok {
				r.Add(field.Invalid(path, fmt.Sprintf("%v", args[key]), "must be a string, number or boolean"))
				continue
			}
			spec.EngineArgs[key] = v
		}
		if len(spec.EngineArgs) == 0 {
			spec.EngineArgs = nil
		}
	}
}

func validateGateway(r *Reader, spec *Spec) {
	spec.EnableGatewayRouting = r.Bool("enableGatewayRouting", false)
	spec.GatewayName = r.String("gatewayName", "")
	spec.GatewayNamespace = r.String("gatewayNamespace", "")
	if !spec.EnableGatewayRouting {
		return
	}
	if spec.GatewayName == "" {
		r.Add(field.Required(r.Path("gatewayName"), "required when gateway routing is enabled"))
	}
	if spec.GatewayNamespace == "" {
		r.Add(field.Required(r.Path("gatewayNamespace"), "required when gateway routing is enabled"))
	}
}

func engineAllowed(e Engine, allowed []Engine) bool {
	for _, a := range allowed {
		if e == a {
			return true
		}
	}
	return false
}

// scalar normalises an engine argument value; integral numbers become int.
func scalar(v any) (any, bool) {
	switch val := v.(type) {
	case string, bool:
		return val, true
	case float64:
		if n, ok := ToInt(val); ok {
			return n, true
		}
		return val, true
	case float32:
		return float64(val), true
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n), true
		}
		f, err := val.Float64()
		return f, err == nil
	default:
		if n, ok := ToInt(val); ok {
			return n, true
		}
		return nil, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toFieldErrors(errs field.ErrorList) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Path: e.Field, Message: e.ErrorBody()})
	}
	return out
}
