package http

import "fmt"

// MethodPolicy decides what a connection receives when the method is not
// GET.
type MethodPolicy uint8

const (
	// MethodPolicySilent closes the connection without writing anything.
	MethodPolicySilent MethodPolicy = iota
	// MethodPolicyExplicit answers POST with 501 and any other method with 405.
	MethodPolicyExplicit
)

func (policy MethodPolicy) String() string {
	switch policy {
	case MethodPolicySilent:
		return "silent"
	case MethodPolicyExplicit:
		return "explicit"
	}
	return fmt.Sprintf("MethodPolicy(%d)", uint8(policy))
}

func ParseMethodPolicy(s string) (MethodPolicy, error) {
	switch s {
	case "silent":
		return MethodPolicySilent, nil
	case "explicit":
		return MethodPolicyExplicit, nil
	}
	return 0, fmt.Errorf("http: unknown method policy %q", s)
}

// PathPolicy decides how a request path is mapped below the web root.
type PathPolicy uint8

const (
	// PathPolicyConfined cleans the joined path and refuses anything that
	// escapes the web root with 403.
	PathPolicyConfined PathPolicy = iota
	// PathPolicyRaw concatenates root and path as-is; "../" is not sanitized.
	PathPolicyRaw
)

func (policy PathPolicy) String() string {
	switch policy {
	case PathPolicyConfined:
		return "confined"
	case PathPolicyRaw:
		return "raw"
	}
	return fmt.Sprintf("PathPolicy(%d)", uint8(policy))
}

func ParsePathPolicy(s string) (PathPolicy, error) {
	switch s {
	case "confined":
		return PathPolicyConfined, nil
	case "raw":
		return PathPolicyRaw, nil
	}
	return 0, fmt.Errorf("http: unknown path policy %q", s)
}
