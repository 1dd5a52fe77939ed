package cfg

import (
	"fmt"
	"go/types"
)

// Stmt is an opaque program statement. Statements are used as map keys, so
// the dynamic type of a Stmt must be comparable (pointers are the norm).
type Stmt interface {
	String() string
}

// Expr is an expression used to initialize a member. It is structurally
// compatible with the keys accepted by the environment.
type Expr interface {
	Type() types.Type
	String() string
}

type ElementKind int

const (
	StatementKind ElementKind = iota
	InitializerKind
	ScopeEndKind
	DtorKind
)

func (k ElementKind) String() string {
	switch k {
	case StatementKind:
		return "Statement"
	case InitializerKind:
		return "Initializer"
	case ScopeEndKind:
		return "ScopeEnd"
	case DtorKind:
		return "Dtor"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is a single entry of a basic block.
type Element interface {
	Kind() ElementKind
	String() string
}

type (
	// StmtElement wraps a statement.
	StmtElement struct {
		Stmt Stmt
	}

	// InitializerElement initializes Member of the receiver object with Init.
	// Init may be nil when the member is default-initialized.
	InitializerElement struct {
		Member *types.Var
		Init   Expr
	}

	// OtherElement is any other kind of element. The engine ignores them.
	OtherElement struct {
		ElemKind ElementKind
		Label    string
	}
)

func (StmtElement) Kind() ElementKind { return StatementKind }
func (e StmtElement) String() string  { return e.Stmt.String() }

func (InitializerElement) Kind() ElementKind { return InitializerKind }
func (e InitializerElement) String() string {
	init := "<default>"
	if e.Init != nil {
		init = e.Init.String()
	}
	return fmt.Sprintf("%s(%s)", e.Member.Name(), init)
}

func (e OtherElement) Kind() ElementKind { return e.ElemKind }
func (e OtherElement) String() string {
	if e.Label == "" {
		return "<" + e.ElemKind.String() + ">"
	}
	return e.Label
}

// Stmts wraps every statement in a StmtElement.
func Stmts(stmts ...Stmt) []Element {
	res := make([]Element, 0, len(stmts))
	for _, s := range stmts {
		res = append(res, StmtElement{s})
	}
	return res
}
