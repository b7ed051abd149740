package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory implementations of the store interfaces. They hand out copies so
// a handler that mutates a document without saving it leaves no trace.

type fakeUsers struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = store.NormalizeEmail(u.Email)
	for _, existing := range f.docs {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	u.CreatedAt, u.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	f.docs[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.docs {
		if u.Email == store.NormalizeEmail(email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) Replace(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[u.ID]; !ok {
		return store.ErrNotFound
	}
	u.Email = store.NormalizeEmail(u.Email)
	for id, existing := range f.docs {
		if id != u.ID && existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	u.UpdatedAt = time.Now().UTC()
	f.docs[u.ID] = *u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

type fakeAppointments struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Appointment
}

func (f *fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.docs[a.ID] = *a
	return nil
}

func (f *fakeAppointments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) List(_ context.Context, filter store.AppointmentFilter) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range f.docs {
		if a.User != filter.User || (filter.Status != "" && string(a.Status) != filter.Status) {
			continue
		}
		if !inRange(a.Date, filter.From, filter.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAppointments) Replace(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[a.ID]; !ok {
		return store.ErrNotFound
	}
	f.docs[a.ID] = *a
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeAppointments) DeleteByUser(_ context.Context, user primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.docs {
		if a.User == user {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeAppointments) ListWithDueReminders(context.Context, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) SetReminders(context.Context, primitive.ObjectID, []models.Reminder) error {
	return nil
}

type fakeMeals struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]models.Meal
	calls int
}

func (f *fakeMeals) Create(_ context.Context, m *models.Meal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	f.docs[m.ID] = *m
	return nil
}

func (f *fakeMeals) FindByID(_ context.Context, id primitive.ObjectID) (*models.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	m, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMeals) List(_ context.Context, filter store.MealFilter) ([]models.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := []models.Meal{}
	for _, m := range f.docs {
		if m.User == filter.User && inRange(m.Date, filter.From, filter.To) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeMeals) Replace(_ context.Context, m *models.Meal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.docs[m.ID] = *m
	return nil
}

func (f *fakeMeals) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	delete(f.docs, id)
	return nil
}

func (f *fakeMeals) DeleteByUser(_ context.Context, user primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for id, m := range f.docs {
		if m.User == user {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeMeals) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDietPlans struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.DietPlan
}

func (f *fakeDietPlans) Create(_ context.Context, p *models.DietPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.Plan.Normalize()
	// Strictly increasing timestamps keep "latest" deterministic.
	p.CreatedAt = time.Now().UTC().Add(time.Duration(len(f.docs)) * time.Millisecond)
	f.docs[p.ID] = *p
	return nil
}

func (f *fakeDietPlans) FindByID(_ context.Context, id primitive.ObjectID) (*models.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeDietPlans) List(_ context.Context, user primitive.ObjectID) ([]models.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.DietPlan{}
	for _, p := range f.docs {
		if p.User == user {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeDietPlans) Latest(ctx context.Context, user primitive.ObjectID) (*models.DietPlan, error) {
	plans, _ := f.List(ctx, user)
	if len(plans) == 0 {
		return nil, store.ErrNotFound
	}
	return &plans[0], nil
}

func (f *fakeDietPlans) Replace(_ context.Context, p *models.DietPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[p.ID] = *p
	return nil
}

func (f *fakeDietPlans) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeDietPlans) DeleteByUser(_ context.Context, user primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.docs {
		if p.User == user {
			delete(f.docs, id)
		}
	}
	return nil
}

type fakeQuestions struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Question
}

func copyQuestion(q models.Question) models.Question {
	q.Likes = append([]primitive.ObjectID{}, q.Likes...)
	answers := make([]models.Answer, len(q.Answers))
	for i, a := range q.Answers {
		a.Likes = append([]primitive.ObjectID{}, a.Likes...)
		answers[i] = a
	}
	q.Answers = answers
	return q
}

func (f *fakeQuestions) Create(_ context.Context, q *models.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.Likes == nil {
		q.Likes = []primitive.ObjectID{}
	}
	if q.Answers == nil {
		q.Answers = []models.Answer{}
	}
	q.CreatedAt = time.Now().UTC().Add(time.Duration(len(f.docs)) * time.Millisecond)
	f.docs[q.ID] = copyQuestion(*q)
	return nil
}

func (f *fakeQuestions) FindByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	q = copyQuestion(q)
	return &q, nil
}

func (f *fakeQuestions) View(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	q.Views++
	f.docs[id] = q
	q = copyQuestion(q)
	return &q, nil
}

func (f *fakeQuestions) List(_ context.Context, query store.QuestionQuery) ([]models.Question, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page, limit := store.NormalizePage(query.Page, query.Limit)
	all := []models.Question{}
	for _, q := range f.docs {
		if query.Category != "" && query.Category != "All" && q.Category != query.Category {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(q.Title+" "+q.Content), strings.ToLower(query.Search)) {
			continue
		}
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeQuestions) Replace(_ context.Context, q *models.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[q.ID] = copyQuestion(*q)
	return nil
}

func (f *fakeQuestions) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

type fakePosts struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Post
}

func copyPost(p models.Post) models.Post {
	p.Tags = append([]string{}, p.Tags...)
	p.Likes = append([]primitive.ObjectID{}, p.Likes...)
	p.Comments = append([]models.Comment{}, p.Comments...)
	return p
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes == nil {
		p.Likes = []primitive.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	p.CreatedAt = time.Now().UTC().Add(time.Duration(len(f.docs)) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	if p.Date.IsZero() {
		p.Date = p.CreatedAt
	}
	f.docs[p.ID] = copyPost(*p)
	return nil
}

func (f *fakePosts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = copyPost(p)
	return &p, nil
}

func (f *fakePosts) List(_ context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []models.Post{}
	for _, p := range f.docs {
		all = append(all, copyPost(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return all, nil
}

func (f *fakePosts) Replace(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[p.ID]; !ok {
		return store.ErrNotFound
	}
	f.docs[p.ID] = copyPost(*p)
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type sentSMS struct {
	kind  string
	phone string
	code  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentSMS
}

func (n *fakeNotifier) record(s sentSMS) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, s)
}

func (n *fakeNotifier) SendAppointmentConfirmationSMS(user *models.User, _ *models.Appointment) {
	n.record(sentSMS{kind: "confirmation", phone: user.Phone})
}

func (n *fakeNotifier) SendAppointmentCancellationSMS(user *models.User, _ *models.Appointment) {
	n.record(sentSMS{kind: "cancellation", phone: user.Phone})
}

func (n *fakeNotifier) SendPasswordResetCode(user *models.User, code string) {
	n.record(sentSMS{kind: "reset", phone: user.Phone, code: code})
}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.kind)
	}
	return out
}

func (n *fakeNotifier) last() sentSMS {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

type fakeAssistant struct {
	answer string
	err    error
	asked  string
}

func (a *fakeAssistant) Ask(_ context.Context, question string) (string, error) {
	a.asked = question
	return a.answer, a.err
}
