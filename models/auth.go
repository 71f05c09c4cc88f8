package models

// Company é o contexto autenticado injetado pelo portal GestãoRH via JWT.
type Company struct {
	ID    string `json:"company_id"`
	Name  string `json:"company_name"`
	Email string `json:"email"`
}
