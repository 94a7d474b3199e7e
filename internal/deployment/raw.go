package deployment

// ToRaw renders the spec back into the untyped input shape accepted by
// Validate, with every default written out explicitly.
func (s *Spec) ToRaw() map[string]any {
	resources := map[string]any{"gpu": s.Resources.GPU}
	if s.Resources.Memory != "" {
		resources["memory"] = s.Resources.Memory
	}

	raw := map[string]any{
		"name":                s.Name,
		"namespace":           s.Namespace,
		"modelId":             s.ModelID,
		"engine":              string(s.Engine),
		"mode":                string(s.Mode),
		"routerMode":          string(s.RouterMode),
		"replicas":            s.Replicas,
		"resources":           resources,
		"prefillReplicas":     s.PrefillReplicas,
		"decodeReplicas":      s.DecodeReplicas,
		"prefillGpus":         s.PrefillGPUs,
		"decodeGpus":          s.DecodeGPUs,
		"enforceEager":        s.EnforceEager,
		"enablePrefixCaching": s.EnablePrefixCaching,
		"trustRemoteCode":     s.TrustRemoteCode,
		"gated":               s.Gated,
	}
	if s.ServedModelName != "" {
		raw["servedModelName"] = s.ServedModelName
	}
	if s.ContextLength != nil {
		raw["contextLength"] = *s.ContextLength
	}
	if s.HFTokenSecret != "" {
		raw["hfTokenSecret"] = s.HFTokenSecret
	}
	if len(s.EngineArgs) > 0 {
		args := make(map[string]any, len(s.EngineArgs))
		for k, v := range s.EngineArgs {
			args[k] = v
		}
		raw["engineArgs"] = args
	}
	if s.EnableGatewayRouting || s.GatewayName != "" || s.GatewayNamespace != "" {
		raw["enableGatewayRouting"] = s.EnableGatewayRouting
		raw["gatewayName"] = s.GatewayName
		raw["gatewayNamespace"] = s.GatewayNamespace
	}
	if s.Parallelism != nil {
		raw["parallelism"] = map[string]any{
			"tensorParallelSize":   s.Parallelism.TensorParallelSize,
			"pipelineParallelSize": s.Parallelism.PipelineParallelSize,
		}
	}
	if s.Autoscaling != nil {
		raw["autoscaling"] = map[string]any{
			"minReplicas": s.Autoscaling.MinReplicas,
			"maxReplicas": s.Autoscaling.MaxReplicas,
		}
	}
	if s.ComputeType != "" {
		raw["computeType"] = string(s.ComputeType)
	}
	if s.GGUFFile != "" {
		raw["ggufFile"] = s.GGUFFile
	}
	if s.InstanceType != "" {
		raw["instanceType"] = s.InstanceType
	}
	return raw
}
