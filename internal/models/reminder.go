package models

import "github.com/shopspring/decimal"

type DueReminder struct {
	OrderID      int             `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	DueDate      Date            `json:"due_date"`
	Remaining    decimal.Decimal `json:"remaining"`
	DaysUntil    int             `json:"days_until"`
	DueLabel     string          `json:"due_label"`
	Title        string          `json:"title"`
	Body         string          `json:"body"`
}

type DueReminders struct {
	Reminders []DueReminder `json:"reminders"`
	Soonest   *DueReminder  `json:"soonest,omitempty"`
	Message   string        `json:"message,omitempty"`
}
