package query

import (
	"sync"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW SESSION
// Защита от гонки параллельных загрузок: пользователь может переключить
// фильтр или режим до завершения предыдущей загрузки. Каждой загрузке
// выдаётся монотонно растущий номер поколения; результат устаревшего
// поколения отбрасывается и никогда не попадает в отображаемое состояние.
// ══════════════════════════════════════════════════════════════════════════════

// ViewSession владеет текущей view-моделью одного пользователя/экрана.
type ViewSession struct {
	mu      sync.Mutex
	gen     uint64
	current *RankingView
}

// NewViewSession создаёт пустую сессию.
func NewViewSession() *ViewSession {
	return &ViewSession{}
}

// Begin регистрирует новую загрузку и возвращает её поколение.
// Все ранее начатые загрузки с этого момента устаревшие.
func (s *ViewSession) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Install устанавливает результат загрузки, только если её поколение
// всё ещё текущее. Возвращает false для устаревшего результата.
func (s *ViewSession) Install(gen uint64, view *RankingView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.current = view
	return true
}

// Current возвращает текущую view-модель (nil, пока ничего не загружено)
// и номер последнего начатого поколения.
func (s *ViewSession) Current() (*RankingView, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.gen
}

// Reset сбрасывает отображаемое состояние (например, при смене режима
// до старта новой загрузки). Начатые загрузки при этом устаревают.
func (s *ViewSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.current = nil
}
