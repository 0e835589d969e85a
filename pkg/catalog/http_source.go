package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
)

var ErrUnexpectedStatus = errors.New("unexpected status from catalog service")

type wireNode struct {
	Id       string     `json:"id"`
	Name     string     `json:"name"`
	Children []wireNode `json:"children,omitempty"`
}

// HttpSource talks to the remote catalog service. Child ids starting with
// BranchPrefix are sub categories, every other child is a product.
type HttpSource struct {
	BaseUrl      string
	BranchPrefix string
	Client       *http.Client
}

func NewHttpSource(baseUrl, branchPrefix string, timeout time.Duration) *HttpSource {
	return &HttpSource{
		BaseUrl:      strings.TrimSuffix(baseUrl, "/"),
		BranchPrefix: branchPrefix,
		Client:       &http.Client{Timeout: timeout},
	}
}

func (s *HttpSource) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseUrl+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %d", ErrUnexpectedStatus, path, res.StatusCode)
	}
	return jsoncompat.NewDecoder(res.Body).Decode(out)
}

func (s *HttpSource) FetchCategoryTree(ctx context.Context) (*Node, error) {
	root := wireNode{}
	if err := s.get(ctx, "/categories", &root); err != nil {
		return nil, fmt.Errorf("fetch category tree: %w", err)
	}
	return s.toNode(root, Branch), nil
}

func (s *HttpSource) toNode(w wireNode, kind NodeKind) *Node {
	node := &Node{Id: w.Id, Name: w.Name, Kind: kind}
	if kind == Leaf {
		return node
	}
	node.Children = make([]*Node, 0, len(w.Children))
	for _, child := range w.Children {
		childKind := Leaf
		if s.BranchPrefix != "" && strings.HasPrefix(child.Id, s.BranchPrefix) {
			childKind = Branch
		}
		node.Children = append(node.Children, s.toNode(child, childKind))
	}
	return node
}

func (s *HttpSource) FetchProduct(ctx context.Context, id string) (*ProductPayload, error) {
	payload := &ProductPayload{}
	if err := s.get(ctx, "/products/"+url.PathEscape(id), payload); err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return payload, nil
}
