package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"gestaorh-checkout-api/queue"
	"gestaorh-checkout-api/services/email"
)

// Worker consome a fila de jobs em background. Hoje o único tipo de job é o
// e-mail de recibo pós-assinatura.
type Worker struct {
	queue     *queue.Queue
	emails    email.EmailSender
	shutdown  chan struct{}
	isRunning bool
}

func NewWorker(q *queue.Queue, emails email.EmailSender) *Worker {
	return &Worker{
		queue:    q,
		emails:   emails,
		shutdown: make(chan struct{}),
	}
}

// Start sobe as goroutines de consumo e o pump de jobs adiados.
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}

	go w.pumpDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

// Stop signals the worker to stop processing jobs
func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

// pumpDelayedJobs devolve periodicamente à fila principal os jobs adiados
// cujo horário de retry já venceu.
func (w *Worker) pumpDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error processing delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeReceiptEmail:
		return w.processReceiptEmail(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) processReceiptEmail(job *queue.Job) error {
	to, ok := job.Data["email"].(string)
	if !ok || to == "" {
		return fmt.Errorf("invalid email in job data")
	}

	data := email.ReceiptData{
		CompanyName:    stringField(job.Data, "company_name"),
		PlanName:       stringField(job.Data, "plan"),
		Bracket:        stringField(job.Data, "bracket"),
		SubscriptionID: stringField(job.Data, "subscription_id"),
	}
	if price, ok := job.Data["price"].(float64); ok {
		data.Price = price
	}

	log.Printf("Sending receipt email for checkout %s", stringField(job.Data, "checkout_id"))

	return w.emails.SendReceiptEmail(to, data)
}

func stringField(data map[string]interface{}, key string) string {
	value, _ := data[key].(string)
	return value
}
