package permission

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"

	"github.com/mpapenbr/racemetrics/log"
	"github.com/mpapenbr/racemetrics/pkg/grpc/auth"
)

const policyQuery = "data.racemetrics.authz.allow"

type (
	OpaPermissionEvaluator struct {
		query rego.PreparedEvalQuery
		l     *log.Logger
	}
	// EvalRequest is the input document of the policy.
	EvalRequest struct {
		Principal string      `json:"principal"`
		Roles     []auth.Role `json:"roles"`
		Action    Permission  `json:"action"`
	}
	opaConfig struct {
		policy []byte
		data   []byte
	}
	OpaOption func(*opaConfig) error
)

var _ PermissionEvaluator = (*OpaPermissionEvaluator)(nil)

//go:embed policy.rego
var defaultPolicy []byte

//go:embed data.json
var defaultData []byte

// WithPolicyFile replaces the builtin policy. The module must define
// data.racemetrics.authz.allow.
func WithPolicyFile(path string) OpaOption {
	return func(c *opaConfig) error {
		return readInto(&c.policy, path)
	}
}

// WithDataFile replaces the builtin role to permission mapping.
func WithDataFile(path string) OpaOption {
	return func(c *opaConfig) error {
		return readInto(&c.data, path)
	}
}

func readInto(target *[]byte, path string) error {
	if path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	*target = content
	return nil
}

func NewOpaPermissionEvaluator(opts ...OpaOption) (*OpaPermissionEvaluator, error) {
	cfg := &opaConfig{policy: defaultPolicy, data: defaultData}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	l := log.Default().Named("permission.opa")
	query, err := rego.New(
		rego.Query(policyQuery),
		rego.Module("racemetrics.authz", string(cfg.policy)),
		rego.Store(inmem.NewFromReader(bytes.NewReader(cfg.data))),
	).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	return &OpaPermissionEvaluator{query: query, l: l}, nil
}

//nolint:whitespace // editor/linter issue
func (ope *OpaPermissionEvaluator) HasPermission(
	a auth.Authentication,
	perm Permission,
) bool {
	input := EvalRequest{
		Principal: a.Principal().Name(),
		Roles:     a.Roles(),
		Action:    perm,
	}
	rs, err := ope.query.Eval(context.Background(), rego.EvalInput(input))
	if err != nil {
		ope.l.Error("policy evaluation failed",
			log.String("action", string(perm)), log.ErrorField(err))
		return false
	}
	allowed := rs.Allowed()
	if !allowed {
		ope.l.Debug("denied",
			log.String("principal", input.Principal),
			log.Any("roles", input.Roles),
			log.String("action", string(perm)))
	}
	return allowed
}
