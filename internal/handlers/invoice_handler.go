package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"seller-backend/internal/services"
	"seller-backend/pkg/utils"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

// GetInvoice returns the invoice of an order as JSON
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	invoice, err := h.Service.Build(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

// DownloadPDF renders the invoice. ?download=1 asks the browser to save it.
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	invoice, err := h.Service.Build(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	pdfBytes, err := h.Service.PDF(invoice)
	if err != nil {
		http.Error(w, "Failed to generate PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	disposition := "inline"
	if r.URL.Query().Get("download") != "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%s.pdf", disposition, invoice.Number))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}

// ArchiveInvoice stores the rendered PDF in object storage
func (h *InvoiceHandler) ArchiveInvoice(w http.ResponseWriter, r *http.Request) {
	seller, ok := sellerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	archive, err := h.Service.Archive(r.Context(), seller, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, archive)
}
