package address

import (
	"context"
	"log"
	"sync"
	"time"

	"gestaorh-checkout-api/utils"
)

// DebounceDelay é o período de silêncio exigido no campo de CEP antes de
// disparar a consulta.
const DebounceDelay = 500 * time.Millisecond

type pendingLookup struct {
	gen   uint64
	timer *time.Timer
}

// AutoFill agenda consultas de CEP com debounce por sessão de checkout. Cada
// edição reinicia o timer e incrementa a geração daquela chave; uma resposta
// que chega com geração antiga é descartada, de modo que uma consulta lenta
// nunca sobrescreve uma edição mais recente.
type AutoFill struct {
	client *Client
	delay  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingLookup
}

func NewAutoFill(client *Client, delay time.Duration) *AutoFill {
	if delay <= 0 {
		delay = DebounceDelay
	}
	return &AutoFill{
		client:  client,
		delay:   delay,
		pending: make(map[string]*pendingLookup),
	}
}

// Schedule registra uma edição do campo de CEP. Depois do período de
// silêncio uma única consulta é disparada e, se ainda for a edição mais
// recente da chave, apply recebe o resultado. CEP incompleto apenas cancela
// a consulta pendente.
func (a *AutoFill) Schedule(key, cep string, apply func(*Result)) {
	clean := utils.OnlyDigits(cep)

	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.pending[key]
	if !ok {
		entry = &pendingLookup{}
		a.pending[key] = entry
	}

	entry.gen++
	gen := entry.gen
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}

	if len(clean) != 8 {
		return
	}

	entry.timer = time.AfterFunc(a.delay, func() {
		a.run(key, gen, clean, apply)
	})
}

// Cancel descarta qualquer consulta pendente da chave. A entrada permanece
// no mapa com a geração avançada para invalidar respostas já em voo.
func (a *AutoFill) Cancel(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.pending[key]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	entry.gen++
}

func (a *AutoFill) run(key string, gen uint64, cep string, apply func(*Result)) {
	ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
	defer cancel()

	result, err := a.client.Lookup(ctx, cep)
	if err != nil {
		// Falha de rede não chega ao usuário; os campos ficam para
		// digitação manual.
		log.Printf("CEP lookup failed for %s: %v", cep, err)
		return
	}
	if result == nil {
		log.Printf("CEP %s not found, leaving address fields for manual entry", cep)
		return
	}

	a.mu.Lock()
	entry, ok := a.pending[key]
	stale := !ok || entry.gen != gen
	a.mu.Unlock()

	if stale {
		log.Printf("Discarding stale CEP result for %s (generation %d)", cep, gen)
		return
	}

	apply(result)
}
