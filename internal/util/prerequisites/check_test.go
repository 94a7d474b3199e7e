package prerequisites

import (
	"errors"
	"strings"
	"testing"
)

func fakeLookPath(present ...string) LookPathFunc {
	return func(name string) (string, error) {
		for _, p := range present {
			if p == name {
				return "/usr/local/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCheck_AllPresent(t *testing.T) {
	res := Check(InstallTools(), fakeLookPath("helm", "kubectl"))
	if err := res.Err(); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if res.Found["helm"] != "/usr/local/bin/helm" {
		t.Errorf("unexpected helm path: %q", res.Found["helm"])
	}
}

func TestCheck_MissingRequired(t *testing.T) {
	res := Check(InstallTools(), fakeLookPath("kubectl"))
	err := res.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "helm (https://helm.sh/docs/intro/install/)") {
		t.Errorf("error should name helm, got: %v", err)
	}
	if strings.Contains(err.Error(), "kubectl") {
		t.Errorf("kubectl is present, got: %v", err)
	}
}

func TestCheck_MissingOptional(t *testing.T) {
	res := Check([]Tool{{Name: "jq"}}, fakeLookPath())
	if len(res.Missing) != 1 {
		t.Fatalf("expected 1 missing tool, got %d", len(res.Missing))
	}
	if err := res.Err(); err != nil {
		t.Errorf("optional tools should not fail, got: %v", err)
	}
}
