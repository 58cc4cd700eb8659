package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
)

// memoryStore is an in-memory stand-in for the tables a settlement touches.
// Transactions run one at a time and are rolled back by restoring a snapshot.
type memoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextPaymentID int64
	payments      []models.Payment
	selections    map[int64]models.Selection
	classes       map[int64]models.SeatInventory
	settlements   map[string]models.Settlement

	paymentErr    error
	enrollErr     error
	createLogErr  error
	reserveCalls  int
	blockUntilCtx bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		selections:  map[int64]models.Selection{},
		classes:     map[int64]models.SeatInventory{},
		settlements: map[string]models.Settlement{},
	}
}

func (m *memoryStore) addClass(id int64, seats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[id] = models.SeatInventory{ClassID: id, AvailableSeats: seats}
}

func (m *memoryStore) addSelection(id, classID int64, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[id] = models.Selection{ID: id, ClassID: classID, StudentEmail: email}
}

func (m *memoryStore) selection(id int64) models.Selection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selections[id]
}

func (m *memoryStore) inventory(id int64) models.SeatInventory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classes[id]
}

func (m *memoryStore) paymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func (m *memoryStore) settlement(id string) models.Settlement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settlements[id]
}

func (m *memoryStore) settlementStatuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	statuses := make([]string, 0, len(m.settlements))
	for _, settlement := range m.settlements {
		statuses = append(statuses, string(settlement.Status))
	}
	sort.Strings(statuses)
	return statuses
}

type memorySnapshot struct {
	nextPaymentID int64
	payments      []models.Payment
	selections    map[int64]models.Selection
	classes       map[int64]models.SeatInventory
	settlements   map[string]models.Settlement
}

func (m *memoryStore) snapshot() memorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := memorySnapshot{
		nextPaymentID: m.nextPaymentID,
		payments:      append([]models.Payment(nil), m.payments...),
		selections:    make(map[int64]models.Selection, len(m.selections)),
		classes:       make(map[int64]models.SeatInventory, len(m.classes)),
		settlements:   make(map[string]models.Settlement, len(m.settlements)),
	}
	for k, v := range m.selections {
		snap.selections[k] = v
	}
	for k, v := range m.classes {
		snap.classes[k] = v
	}
	for k, v := range m.settlements {
		snap.settlements[k] = v
	}
	return snap
}

func (m *memoryStore) restore(snap memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPaymentID = snap.nextPaymentID
	m.payments = snap.payments
	m.selections = snap.selections
	m.classes = snap.classes
	m.settlements = snap.settlements
}

func (m *memoryStore) Within(ctx context.Context, fn func(repos SettlementRepos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if m.blockUntilCtx {
		<-ctx.Done()
		return ctx.Err()
	}

	snap := m.snapshot()
	err := fn(SettlementRepos{
		Payments:    m,
		Selections:  m,
		Ledger:      NewSeatLedger(m),
		Settlements: m,
	})
	if err != nil {
		m.restore(snap)
	}
	return err
}

func (m *memoryStore) Create(_ context.Context, input repository.CreatePaymentInput) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paymentErr != nil {
		return nil, m.paymentErr
	}
	m.nextPaymentID++
	payment := models.Payment{
		ID:            m.nextPaymentID,
		SettlementID:  input.SettlementID,
		Email:         input.Email,
		ClassID:       input.ClassID,
		SelectedID:    input.SelectedID,
		Amount:        input.Amount,
		TransactionID: input.TransactionID,
		Date:          time.Now().UTC(),
	}
	m.payments = append(m.payments, payment)
	return &payment, nil
}

func (m *memoryStore) MarkEnrolled(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enrollErr != nil {
		return 0, m.enrollErr
	}
	selection, ok := m.selections[id]
	if !ok || selection.Enrolled {
		return 0, nil
	}
	selection.Enrolled = true
	m.selections[id] = selection
	return 1, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*models.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	selection, ok := m.selections[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &selection, nil
}

func (m *memoryStore) ReserveSeat(_ context.Context, id int64) (*models.SeatInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserveCalls++
	inventory, ok := m.classes[id]
	if !ok || inventory.AvailableSeats <= 0 {
		return nil, pgx.ErrNoRows
	}
	inventory.AvailableSeats--
	inventory.SeatBookings++
	m.classes[id] = inventory
	return &inventory, nil
}

func (m *memoryStore) GetInventory(_ context.Context, id int64) (*models.SeatInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inventory, ok := m.classes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &inventory, nil
}

func (m *memoryStore) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.classes[id]
	return ok, nil
}

func (m *memoryStore) Complete(_ context.Context, id string, input repository.CompleteSettlementInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	settlement := m.settlements[id]
	paymentID := input.PaymentID
	modified := input.ModifiedCount
	outcome := input.SeatOutcome
	settlement.Status = input.Status
	settlement.PaymentID = &paymentID
	settlement.ModifiedCount = &modified
	settlement.SeatOutcome = &outcome
	m.settlements[id] = settlement
	return nil
}

// memorySettlementLog exposes the intent log methods, which run outside the
// settlement transaction.
type memorySettlementLog struct {
	store *memoryStore
}

func (l memorySettlementLog) Create(_ context.Context, input repository.CreateSettlementInput) (*models.Settlement, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if l.store.createLogErr != nil {
		return nil, l.store.createLogErr
	}
	settlement := models.Settlement{
		ID:         input.ID,
		Email:      input.Email,
		ClassID:    input.ClassID,
		SelectedID: input.SelectedID,
		Amount:     input.Amount,
		Status:     models.SettlementPending,
		CreatedAt:  time.Now().UTC(),
	}
	l.store.settlements[input.ID] = settlement
	return &settlement, nil
}

func (l memorySettlementLog) MarkStatus(_ context.Context, id string, from, to models.SettlementStatus, reason string) (int64, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	settlement, ok := l.store.settlements[id]
	if !ok || settlement.Status != from {
		return 0, nil
	}
	settlement.Status = to
	if reason != "" {
		settlement.Error = &reason
	}
	l.store.settlements[id] = settlement
	return 1, nil
}

func (l memorySettlementLog) List(_ context.Context, status string, limit int) ([]models.Settlement, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	settlements := make([]models.Settlement, 0)
	for _, settlement := range l.store.settlements {
		if status == "" || string(settlement.Status) == status {
			settlements = append(settlements, settlement)
		}
		if len(settlements) == limit {
			break
		}
	}
	return settlements, nil
}

func (l memorySettlementLog) ListStalePending(_ context.Context, before time.Time, limit int) ([]models.Settlement, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	settlements := make([]models.Settlement, 0)
	for _, settlement := range l.store.settlements {
		if settlement.Status == models.SettlementPending && settlement.CreatedAt.Before(before) {
			settlements = append(settlements, settlement)
		}
		if len(settlements) == limit {
			break
		}
	}
	return settlements, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.SeatInventory
}

func (p *recordingPublisher) PublishSeats(inventory models.SeatInventory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, inventory)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
