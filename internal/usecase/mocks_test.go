package usecase

import (
	"context"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeTx — минимальная pgx.Tx для транзакций в тестах.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error {
	t.commits++
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

// fakePool подменяет пул соединений при открытии транзакций.
type fakePool struct {
	tx *fakeTx
}

func newFakePool() *fakePool {
	return &fakePool{tx: &fakeTx{}}
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) { return p.tx, nil }
func (p *fakePool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return p.tx, nil
}

type mockProductRepo struct {
	products map[int64]*domain.Product
	getAll   func(ctx context.Context) ([]domain.Product, error)
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.ID = int64(len(m.products) + 1)
	m.products[product.ID] = product
	return product, nil
}

func (m *mockProductRepo) GetAll(ctx context.Context) ([]domain.Product, error) {
	if m.getAll != nil {
		return m.getAll(ctx)
	}
	all := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		all = append(all, *p)
	}
	return all, nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return p, nil
}

type mockOrderRepo struct {
	orders     map[int64]*domain.Order
	nextID     int64
	takenCodes map[string]bool
	updated    []string // коды заказов, переведённых в CONFIRMED
	codeErr    error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders:     make(map[int64]*domain.Order),
		takenCodes: make(map[string]bool),
	}
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.nextID++
	order.ID = m.nextID
	m.orders[order.ID] = order
	return order, nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByIDAndStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != status {
		return nil, e.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByCodeAndStatus(ctx context.Context, code string, status domain.OrderStatus) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.Code == code && o.Status == status {
			return o, nil
		}
	}
	return nil, e.ErrOrderNotFound
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id int64, from domain.OrderStatus, to domain.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return e.ErrOrderNotFound
	}
	o.Status = to
	m.updated = append(m.updated, o.Code)
	return nil
}

func (m *mockOrderRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.codeErr != nil {
		return false, m.codeErr
	}
	return m.takenCodes[code], nil
}

type mockOutboxRepo struct {
	events    []*OutboxEvent
	createErr error
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)
	return event, nil
}

func (m *mockOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (m *mockOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error { return nil }

type mockCacheRepo struct {
	cached  []ProductInfo
	getErr  error
	sets    [][]ProductInfo
	deletes int
}

func (m *mockCacheRepo) GetProducts(ctx context.Context) ([]ProductInfo, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cached, nil
}

func (m *mockCacheRepo) SetProducts(ctx context.Context, products []ProductInfo) error {
	m.sets = append(m.sets, products)
	return nil
}

func (m *mockCacheRepo) DeleteProducts(ctx context.Context) error {
	m.deletes++
	return nil
}

type sentMail struct {
	kind       string
	order      *domain.Order
	confirmURL string
}

type mockMailer struct {
	sent      []sentMail
	placedErr error
	noticeErr error
}

func (m *mockMailer) SendOrderPlaced(ctx context.Context, order *domain.Order, confirmURL string) error {
	if m.placedErr != nil {
		return m.placedErr
	}
	m.sent = append(m.sent, sentMail{kind: "placed", order: order, confirmURL: confirmURL})
	return nil
}

func (m *mockMailer) SendOperatorNotice(ctx context.Context, order *domain.Order) error {
	if m.noticeErr != nil {
		return m.noticeErr
	}
	m.sent = append(m.sent, sentMail{kind: "notice", order: order})
	return nil
}

func (m *mockMailer) SendOrderConfirmed(ctx context.Context, order *domain.Order) error {
	m.sent = append(m.sent, sentMail{kind: "confirmed", order: order})
	return nil
}

type mockMailbox struct {
	emails []domain.InboundEmail
	err    error
}

func (m *mockMailbox) FetchUnseenConfirmations(ctx context.Context) ([]domain.InboundEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.emails, nil
}

type mockClassifier struct {
	scores map[string][]LabelScore // ключ — тело письма
	err    error
}

func (m *mockClassifier) Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scores[text], nil
}

type mockArchive struct {
	stored []string // коды заказов заархивированных писем
	err    error
}

func (m *mockArchive) Store(ctx context.Context, email *domain.InboundEmail, orderCode string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.stored = append(m.stored, orderCode)
	return "confirmations/" + orderCode + "/test.eml", nil
}
