package storages

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/reusee/arcflow/projects"
)

// HTTP is a client of a project service REST API.
type HTTP struct {
	baseURL string
	client  *http.Client
}

var _ Storage = new(HTTP)

func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

const maxErrorBody = 512

func (h *HTTP) do(ctx context.Context, op string, method string, path string, body any) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		content, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &Error{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(content)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, &Error{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Op: op, Err: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(content) > maxErrorBody {
			content = content[:maxErrorBody]
		}
		return nil, resp.StatusCode, &Error{
			Op:  op,
			Err: fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(content)),
		}
	}
	return content, resp.StatusCode, nil
}

func httpGet[T any](
	ctx context.Context,
	h *HTTP,
	kind Kind,
	id string,
	path string,
	decode func([]byte, projects.Format) (*T, error),
) (*T, error) {
	op := "get " + string(kind)
	content, status, err := h.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	ret, err := decode(content, projects.FormatJSON)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return ret, nil
}

func (h *HTTP) send(ctx context.Context, kind Kind, method string, path string, value any) error {
	_, status, err := h.do(ctx, "update "+string(kind), method, path, value)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return &Error{Op: "update " + string(kind), Err: fmt.Errorf("%s %s: not found", method, path)}
	}
	return nil
}

func (h *HTTP) post(ctx context.Context, kind Kind, path string, value any) error {
	return h.send(ctx, kind, http.MethodPost, path, value)
}

// decodeModel decodes a bare geometry document served for modelType.
func decodeModel(modelType projects.ModelType) func([]byte, projects.Format) (*projects.ObjectModel, error) {
	return func(content []byte, format projects.Format) (*projects.ObjectModel, error) {
		tagged, err := json.Marshal(map[string]any{
			"type":          modelType,
			modelType.Key(): json.RawMessage(content),
		})
		if err != nil {
			return nil, err
		}
		return projects.DecodeObjectModel(tagged, format)
	}
}

type idDesc struct {
	ID   string `json:"id"`
	Desc string `json:"desc,omitempty"`
}

func (h *HTTP) ids(ctx context.Context, kind Kind, path string) ([]string, error) {
	op := "list " + string(kind)
	content, status, err := h.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	var list []idDesc
	if err := json.Unmarshal(content, &list); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	ret := make([]string, 0, len(list))
	for _, item := range list {
		ret = append(ret, item.ID)
	}
	slices.Sort(ret)
	return ret, nil
}

func (h *HTTP) GetProject(ctx context.Context, id string) (*projects.Project, error) {
	return httpGet(ctx, h, KindProject, id, "/project/"+url.PathEscape(id), projects.DecodeProject)
}

func (h *HTTP) GetScene(ctx context.Context, id string) (*projects.Scene, error) {
	return httpGet(ctx, h, KindScene, id, "/scene/"+url.PathEscape(id), projects.DecodeScene)
}

func (h *HTTP) GetObjectType(ctx context.Context, id string) (*projects.ObjectType, error) {
	return httpGet(ctx, h, KindObjectType, id, "/object_type/"+url.PathEscape(id), projects.DecodeObjectType)
}

func (h *HTTP) GetProjectSources(ctx context.Context, id string) (*projects.ProjectSources, error) {
	return httpGet(ctx, h, KindProjectSources, id, "/project/"+url.PathEscape(id)+"/sources", projects.DecodeProjectSources)
}

func (h *HTTP) GetModel(ctx context.Context, id string, modelType projects.ModelType) (*projects.ObjectModel, error) {
	return httpGet(ctx, h, KindModel, id, "/models/"+url.PathEscape(id)+"/"+modelType.Key(), decodeModel(modelType))
}

func (h *HTTP) ProjectIDs(ctx context.Context) ([]string, error) {
	return h.ids(ctx, KindProject, "/projects")
}

func (h *HTTP) ObjectTypeIDs(ctx context.Context) ([]string, error) {
	return h.ids(ctx, KindObjectType, "/object_types")
}

func (h *HTTP) UpdateProject(ctx context.Context, project *projects.Project) error {
	return h.post(ctx, KindProject, "/project", project)
}

func (h *HTTP) UpdateScene(ctx context.Context, scene *projects.Scene) error {
	return h.post(ctx, KindScene, "/scene", scene)
}

func (h *HTTP) UpdateObjectType(ctx context.Context, objectType *projects.ObjectType) error {
	return h.post(ctx, KindObjectType, "/object_type", objectType)
}

func (h *HTTP) UpdateProjectSources(ctx context.Context, sources *projects.ProjectSources) error {
	return h.post(ctx, KindProjectSources, "/project/sources", sources)
}

func (h *HTTP) UpdateModel(ctx context.Context, model *projects.ObjectModel) error {
	geometry := model.Geometry()
	if geometry == nil {
		return &Error{Op: "update " + string(KindModel), Err: fmt.Errorf("model of type %q has no geometry", model.Type)}
	}
	return h.send(ctx, KindModel, http.MethodPut, "/models/"+model.Type.Key(), geometry)
}
