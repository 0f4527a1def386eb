package sale

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale representa uma venda e seus itens
type Sale struct {
	id           uuid.UUID
	saleNumber   string
	saleDate     time.Time
	customerID   uuid.UUID
	customerName string
	branch       string
	totalAmount  decimal.Decimal
	isCancelled  bool
	createdAt    time.Time
	updatedAt    *time.Time
	items        []*SaleItem
	version      int64
}

// header são os dados de cabeçalho já validados
type header struct {
	saleNumber   string
	saleDate     time.Time
	customerID   uuid.UUID
	customerName string
	branch       string
}

func validateHeader(number string, date time.Time, customerID uuid.UUID, customerName, branch string) (header, error) {
	number = strings.TrimSpace(number)
	branch = strings.TrimSpace(branch)
	customerName = strings.TrimSpace(customerName)

	if number == "" {
		return header{}, ErrEmptySaleNumber
	}
	if utf8.RuneCountInString(number) > 50 {
		return header{}, ErrSaleNumberTooLong
	}
	if date.IsZero() {
		return header{}, ErrEmptySaleDate
	}
	if date.After(now()) {
		return header{}, ErrFutureSaleDate
	}
	if customerID == uuid.Nil {
		return header{}, ErrEmptyCustomerID
	}
	if utf8.RuneCountInString(customerName) > 255 {
		return header{}, ErrCustomerNameTooLong
	}
	if branch == "" {
		return header{}, ErrEmptyBranch
	}
	if utf8.RuneCountInString(branch) > 100 {
		return header{}, ErrBranchTooLong
	}

	return header{
		saleNumber:   number,
		saleDate:     date.UTC(),
		customerID:   customerID,
		customerName: customerName,
		branch:       branch,
	}, nil
}

// NewSale cria uma nova venda com seus itens
func NewSale(
	number string,
	date time.Time,
	customerID uuid.UUID,
	customerName string,
	branch string,
	items []ItemSpec,
) (*Sale, error) {
	h, err := validateHeader(number, date, customerID, customerName, branch)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	s := &Sale{
		id:        uuid.New(),
		createdAt: now(),
	}
	s.applyHeader(h)

	for _, spec := range items {
		item, err := NewSaleItem(s.id, spec.ProductID, spec.Quantity, spec.ProductDetails)
		if err != nil {
			return nil, err
		}
		s.items = append(s.items, item)
	}
	s.recalculateTotal()

	return s, nil
}

func (s *Sale) applyHeader(h header) {
	s.saleNumber = h.saleNumber
	s.saleDate = h.saleDate
	s.customerID = h.customerID
	s.customerName = h.customerName
	s.branch = h.branch
}

// UpdateHeader atualiza os dados de cabeçalho da venda. cancel=true cancela
// a venda; uma venda cancelada nunca volta a ficar ativa. Os itens não são alterados.
func (s *Sale) UpdateHeader(
	number string,
	date time.Time,
	customerID uuid.UUID,
	customerName string,
	branch string,
	cancel bool,
) error {
	h, err := validateHeader(number, date, customerID, customerName, branch)
	if err != nil {
		return err
	}

	s.applyHeader(h)
	if cancel {
		s.isCancelled = true
	}
	s.touch()
	return nil
}

// Cancel cancela a venda. Retorna false se ela já estava cancelada.
func (s *Sale) Cancel() bool {
	if s.isCancelled {
		return false
	}
	s.isCancelled = true
	s.touch()
	return true
}

// ReconcileItems aplica a lista de itens recebida sobre os itens atuais:
// itens com ID conhecido são atualizados, itens sem ID (ou com ID desconhecido)
// são adicionados e itens atuais não referenciados são removidos.
// Toda a lista é validada antes de qualquer alteração.
func (s *Sale) ReconcileItems(incoming []ItemSpec) error {
	if len(incoming) == 0 {
		return ErrNoItems
	}

	current := make(map[uuid.UUID]*SaleItem, len(s.items))
	for _, item := range s.items {
		current[item.id] = item
	}

	type change struct {
		target *SaleItem
		values itemValues
	}

	updates := make(map[uuid.UUID]change, len(incoming))
	var additions []itemValues

	for _, spec := range incoming {
		values, err := computeItemValues(spec.ProductID, spec.Quantity, spec.ProductDetails)
		if err != nil {
			return err
		}

		target, known := current[spec.ID]
		if spec.ID == uuid.Nil || !known {
			additions = append(additions, values)
			continue
		}
		if _, dup := updates[spec.ID]; dup {
			return ErrDuplicateItem
		}
		updates[spec.ID] = change{target: target, values: values}
	}

	ts := now()
	kept := make([]*SaleItem, 0, len(updates)+len(additions))
	for _, item := range s.items {
		c, ok := updates[item.id]
		if !ok {
			continue
		}
		c.target.apply(c.values)
		c.target.updatedAt = &ts
		kept = append(kept, c.target)
	}
	for _, values := range additions {
		item := &SaleItem{
			id:        uuid.New(),
			saleID:    s.id,
			createdAt: ts,
		}
		item.apply(values)
		kept = append(kept, item)
	}

	s.items = kept
	s.recalculateTotal()
	s.updatedAt = &ts
	return nil
}

func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.totalAmount)
	}
	s.totalAmount = total
}

func (s *Sale) touch() {
	ts := now()
	s.updatedAt = &ts
}

func (s *Sale) ID() uuid.UUID { return s.id }
func (s *Sale) SaleNumber() string { return s.saleNumber }
func (s *Sale) SaleDate() time.Time { return s.saleDate }
func (s *Sale) CustomerID() uuid.UUID { return s.customerID }
func (s *Sale) CustomerName() string { return s.customerName }
func (s *Sale) Branch() string { return s.branch }
func (s *Sale) TotalAmount() decimal.Decimal { return s.totalAmount }
func (s *Sale) IsCancelled() bool { return s.isCancelled }
func (s *Sale) CreatedAt() time.Time { return s.createdAt }
func (s *Sale) ItemCount() int { return len(s.items) }

// UpdatedAt retorna a data da última alteração, ou nil se nunca alterada
func (s *Sale) UpdatedAt() *time.Time {
	if s.updatedAt == nil {
		return nil
	}
	ts := *s.updatedAt
	return &ts
}

// Items retorna cópias dos itens; alterá-las não afeta a venda
func (s *Sale) Items() []*SaleItem {
	out := make([]*SaleItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.clone()
	}
	return out
}

// Version retorna o token de concorrência atribuído pela persistência
func (s *Sale) Version() int64 { return s.version }

// StampVersion registra o token de concorrência. Uso exclusivo dos repositórios.
func (s *Sale) StampVersion(v int64) { s.version = v }

// Clone retorna uma cópia independente da venda
func (s *Sale) Clone() *Sale {
	c := *s
	c.updatedAt = s.UpdatedAt()
	c.items = s.Items()
	return &c
}

// State é o estado persistido de uma venda
type State struct {
	ID           uuid.UUID
	SaleNumber   string
	SaleDate     time.Time
	CustomerID   uuid.UUID
	CustomerName string
	Branch       string
	TotalAmount  decimal.Decimal
	IsCancelled  bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	Version      int64
	Items        []ItemState
}

// RestoreSale reconstrói uma venda a partir do estado persistido, sem validar
func RestoreSale(st State) *Sale {
	s := &Sale{
		id:           st.ID,
		saleNumber:   st.SaleNumber,
		saleDate:     st.SaleDate,
		customerID:   st.CustomerID,
		customerName: st.CustomerName,
		branch:       st.Branch,
		totalAmount:  st.TotalAmount,
		isCancelled:  st.IsCancelled,
		createdAt:    st.CreatedAt,
		version:      st.Version,
	}
	if st.UpdatedAt != nil {
		ts := *st.UpdatedAt
		s.updatedAt = &ts
	}
	for _, is := range st.Items {
		s.items = append(s.items, RestoreSaleItem(is))
	}
	return s
}

// State retorna o estado da venda para persistência
func (s *Sale) State() State {
	st := State{
		ID:           s.id,
		SaleNumber:   s.saleNumber,
		SaleDate:     s.saleDate,
		CustomerID:   s.customerID,
		CustomerName: s.customerName,
		Branch:       s.branch,
		TotalAmount:  s.totalAmount,
		IsCancelled:  s.isCancelled,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.UpdatedAt(),
		Version:      s.version,
		Items:        make([]ItemState, 0, len(s.items)),
	}
	for _, item := range s.items {
		st.Items = append(st.Items, item.State())
	}
	return st
}
