package catalog

import "context"

type NodeKind uint8

const (
	Branch NodeKind = iota
	Leaf
)

func (k NodeKind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "branch"
}

// Node is one entry of the category tree. Branches group children, leaves
// are products whose attributes are looked up separately.
type Node struct {
	Id       string
	Name     string
	Kind     NodeKind
	Children []*Node
}

func NewBranch(id, name string, children ...*Node) *Node {
	return &Node{Id: id, Name: name, Kind: Branch, Children: children}
}

func NewLeaf(id, name string) *Node {
	return &Node{Id: id, Name: name, Kind: Leaf}
}

// ProductPayload is what the catalog service returns for one product. Extra
// is loosely shaped, see ExtractExtra.
type ProductPayload struct {
	Id    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Extra any    `json:"extra"`
}

type TreeSource interface {
	FetchCategoryTree(ctx context.Context) (*Node, error)
}

type ProductSource interface {
	FetchProduct(ctx context.Context, id string) (*ProductPayload, error)
}
