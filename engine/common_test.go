package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/lawding/lawgraph"
	"github.com/lawding/lawgraph/log"
	"github.com/lawding/lawgraph/registry"
)

// fakeModel is a scripted ChatModel. Structured responses are queued per
// schema name; the last entry repeats once the queue drains.
type fakeModel struct {
	mu sync.Mutex

	completeText string
	completeErr  error
	streamChunks []string

	structured    map[string][]any
	structuredErr map[string]error

	completeMessages   [][]lawgraph.Message
	structuredRequests []string
}

func (m *fakeModel) Complete(ctx context.Context, messages []lawgraph.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeMessages = append(m.completeMessages, messages)
	return m.completeText, m.completeErr
}

func (m *fakeModel) CompleteStream(ctx context.Context, messages []lawgraph.Message, fn func(delta string)) (string, error) {
	m.mu.Lock()
	m.completeMessages = append(m.completeMessages, messages)
	chunks := m.streamChunks
	text := m.completeText
	err := m.completeErr
	m.mu.Unlock()

	if err != nil {
		return "", err
	}
	if len(chunks) == 0 && text != "" {
		chunks = []string{text}
	}
	full := ""
	for _, chunk := range chunks {
		full += chunk
		if fn != nil {
			fn(chunk)
		}
	}
	return full, nil
}

func (m *fakeModel) CompleteStructured(ctx context.Context, messages []lawgraph.Message, name string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.structuredRequests = append(m.structuredRequests, name)

	if err, ok := m.structuredErr[name]; ok && err != nil {
		return err
	}
	queue := m.structured[name]
	if len(queue) == 0 {
		return errors.New("no scripted response for " + name)
	}
	value := queue[0]
	if len(queue) > 1 {
		m.structured[name] = queue[1:]
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// lastSystemPrompt returns the system message of the most recent completion.
func (m *fakeModel) lastSystemPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.completeMessages) == 0 {
		return ""
	}
	last := m.completeMessages[len(m.completeMessages)-1]
	if len(last) == 0 || last[0].Role != lawgraph.RoleSystem {
		return ""
	}
	return last[0].Content
}

type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (e *fakeEmbedder) Dimension() int { return 3 }

type fakeSparse struct {
	err error
}

func (s *fakeSparse) Encode(ctx context.Context, text string) (*lawgraph.SparseVector, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &lawgraph.SparseVector{Indices: []uint32{1}, Values: []float32{0.5}}, nil
}

type fakeReranker struct {
	scores []float64
	err    error
	calls  int
}

func (r *fakeReranker) Score(ctx context.Context, query string, passages []string) ([]float64, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if len(r.scores) >= len(passages) {
		return r.scores[:len(passages)], nil
	}
	return r.scores, nil
}

// fakeIndex pops one result set per HybridSearch call; the last set repeats.
type fakeIndex struct {
	mu sync.Mutex

	results   [][]lawgraph.Document
	searchErr error
	existing  map[string]bool
	existsErr error

	searchCalls int
	closed      bool
}

func (i *fakeIndex) HybridSearch(ctx context.Context, dense []float32, sparse *lawgraph.SparseVector, limit int) ([]lawgraph.Document, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.searchCalls++
	if i.searchErr != nil {
		return nil, i.searchErr
	}
	if len(i.results) == 0 {
		return nil, nil
	}
	docs := i.results[0]
	if len(i.results) > 1 {
		i.results = i.results[1:]
	}
	return docs, nil
}

func (i *fakeIndex) StatuteExists(ctx context.Context, name string) (bool, error) {
	if i.existsErr != nil {
		return false, i.existsErr
	}
	return i.existing[name], nil
}

func (i *fakeIndex) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	return nil
}

type fakeProvider struct {
	mu      sync.Mutex
	index   *fakeIndex
	openErr error
	opens   int
}

func (p *fakeProvider) Open(ctx context.Context) (lawgraph.VectorIndex, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opens++
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.index, nil
}

type fakeStore struct {
	mu       sync.Mutex
	history  map[string][]lawgraph.Message
	appends  []lawgraph.Message
	appendTo []string
}

func (s *fakeStore) Append(ctx context.Context, sessionID string, msg lawgraph.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends = append(s.appends, msg)
	s.appendTo = append(s.appendTo, sessionID)
	return nil
}

func (s *fakeStore) History(ctx context.Context, sessionID string, limit int) ([]lawgraph.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[sessionID], nil
}

// laborAnalysis is a baseline in-domain analysis tests adjust per case.
func laborAnalysis() lawgraph.QueryAnalysis {
	return lawgraph.QueryAnalysis{
		Category:        lawgraph.CategoryLabor,
		IntentType:      lawgraph.IntentGeneral,
		QueryComplexity: lawgraph.ComplexityMedium,
		RelatedLaws:     []string{"근로기준법"},
	}
}

func testDocs() []lawgraph.Document {
	return []lawgraph.Document{
		{ID: "doc-1", Content: "사용자는 근로자가 퇴직한 경우 14일 이내에 임금을 지급하여야 한다.", StatuteName: "근로기준법", ArticleNo: "36", Score: 0.9},
		{ID: "doc-2", Content: "퇴직급여제도의 설정에 관한 조항.", StatuteName: "근로자퇴직급여 보장법", ArticleNo: "4", Score: 0.8},
	}
}

// newTestEngine builds an engine over the fakes with quiet logging.
func newTestEngine(model *fakeModel, provider *fakeProvider, opts func(*Options)) *Engine {
	o := Options{
		Config:   lawgraph.DefaultConfig(),
		Model:    model,
		Embedder: &fakeEmbedder{},
		Index:    provider,
		Registry: registry.NewStatuteRegistry(nil),
		Logger:   &log.NoOpLogger{},
	}
	if opts != nil {
		opts(&o)
	}
	eng, err := New(o)
	if err != nil {
		panic(err)
	}
	return eng
}
