package pathfind

import (
	"fmt"

	"github.com/matzehuels/railpath/pkg/errors"
)

// Role names which endpoint of a query an error refers to.
type Role string

// Endpoint roles.
const (
	RoleStart Role = "start"
	RoleEnd   Role = "end"
)

// UnknownNodeError reports an endpoint that is not a node of the graph.
type UnknownNodeError struct {
	Node string
	Role Role
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown %s city %q", e.Role, e.Node)
}

// Code returns [errors.ErrCodeUnknownNode].
func (e *UnknownNodeError) Code() errors.Code { return errors.ErrCodeUnknownNode }
