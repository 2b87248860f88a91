package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"todoweb/internal/shared"
)

func TestServe_MissingAPIURL(t *testing.T) {
	RegisterTestingT(t)
	t.Setenv("API_URL", "")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	err := cmd.Execute()

	Expect(err).To(MatchError(shared.ErrMissingAPIURL))
}

func TestServe_RejectsArguments(t *testing.T) {
	RegisterTestingT(t)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "extra"})

	Expect(cmd.Execute()).To(HaveOccurred())
}

func TestServeOptions_FlagsOverrideConfig(t *testing.T) {
	RegisterTestingT(t)

	config := shared.GetDefaultConfig()
	opts := &serveOptions{port: "4000", apiURL: "http://flag:9000"}

	opts.apply(config)

	Expect(config.Port).To(Equal("4000"))
	Expect(config.APIURL).To(Equal("http://flag:9000"))
}

func TestRoot_HasServeCommand(t *testing.T) {
	RegisterTestingT(t)

	cmd, _, err := NewRootCmd().Find([]string{"serve"})

	Expect(err).ToNot(HaveOccurred())
	Expect(cmd.Name()).To(Equal("serve"))
	Expect(cmd.Flags().Lookup("env-file").DefValue).To(Equal(".env"))
}
