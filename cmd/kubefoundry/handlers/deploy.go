package handlers

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/k8sclient"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/util/labels"
	"github.com/sozercan/kube-foundry-sub000/internal/util/retry"
)

// DeployOptions tunes Deploy.
type DeployOptions struct {
	Cluster Cluster
	DryRun  bool
	Offline bool
	// TokenFromEnv creates or replaces the token secret from $HF_TOKEN
	// instead of requiring it to exist.
	TokenFromEnv bool
}

// Deploy validates and compiles a deployment input and applies the result
// to the cluster.
//
// Before applying it checks that the runtime's custom resource is served
// and that the model credential secret exists when one is referenced. With
// DryRun the manifests are printed instead.
func Deploy(ctx context.Context, providerName string, in Input, opts DeployOptions) error {
	spec, p, bundle, err := compileInput(ctx, providerName, in, opts.Offline)
	if err != nil {
		return err
	}

	if opts.DryRun {
		data, err := bundle.ToYAML()
		if err != nil {
			return fmt.Errorf("failed to render manifests: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	client, err := newClusterClient(opts.Cluster)
	if err != nil {
		return err
	}

	installed, err := client.HasResourceType(ctx, p.GroupVersionKind())
	if err != nil {
		return fmt.Errorf("failed to check %s CRDs: %w", p, err)
	}
	if !installed {
		return fmt.Errorf("%s is not installed in the cluster (kind %s not served); run 'kubefoundry install-steps --provider %s'",
			p, p.GroupVersionKind().Kind, p)
	}

	switch {
	case spec.HFTokenSecret == "":
	case opts.TokenFromEnv:
		if err := createTokenSecret(ctx, client, spec, p); err != nil {
			return err
		}
	default:
		exists, err := client.SecretExists(ctx, spec.Namespace, spec.HFTokenSecret)
		if err != nil {
			return fmt.Errorf("failed to check secret %s/%s: %w", spec.Namespace, spec.HFTokenSecret, err)
		}
		if !exists {
			return fmt.Errorf("secret %s/%s not found; create it with your Hugging Face token or pass --hf-token-from-env",
				spec.Namespace, spec.HFTokenSecret)
		}
	}

	logger := log.FromContext(ctx).WithValues("provider", p, "deployment", spec.Name, "namespace", spec.Namespace)
	err = retry.Do(ctx, func(ctx context.Context) error {
		err := client.ApplyBundle(ctx, bundle, k8sclient.FieldManager)
		if err != nil && meta.IsNoMatchError(err) {
			return retry.Permanent(err)
		}
		if err != nil {
			logger.V(1).Info("Apply failed, retrying", "error", err.Error())
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to deploy %s: %w", spec.Name, err)
	}

	fmt.Fprintf(stdout, "Deployed %s/%s with %s (%d manifests)\n", spec.Namespace, spec.Name, p, len(bundle.Documents()))
	fmt.Fprintf(stdout, "Check progress with: kubefoundry status %s --namespace %s --provider %s\n", spec.Name, spec.Namespace, p)
	return nil
}

func createTokenSecret(ctx context.Context, client k8sclient.Client, spec *deployment.Spec, p provider.Provider) error {
	token := getenv(manifest.HFTokenKey)
	if token == "" {
		return fmt.Errorf("%s is not set; export your Hugging Face token or create secret %s/%s yourself",
			manifest.HFTokenKey, spec.Namespace, spec.HFTokenSecret)
	}
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.HFTokenSecret,
			Namespace: spec.Namespace,
			Labels:    labels.NewLabelBuilder(spec.Name).WithProvider(string(p)).WithComponent("credentials").Build(),
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{manifest.HFTokenKey: token},
	}
	if err := client.CreateSecret(ctx, secret); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created secret %s/%s from $%s\n", spec.Namespace, spec.HFTokenSecret, manifest.HFTokenKey)
	return nil
}
