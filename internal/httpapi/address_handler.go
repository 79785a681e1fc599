package httpapi

import (
	"net/http"

	"github.com/abdulrehan17773/am-backend/internal/service"
)

// A missing address is a normal state for new accounts, so GET returns
// null data instead of 404.
func (a *API) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	address, err := a.addresses.Get(r.Context(), mustUser(r).ID)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	if address == nil {
		writeSuccess(w, http.StatusOK, nil, "no address on file")
		return
	}

	writeSuccess(w, http.StatusOK, toAddressDTO(*address), "address")
}

type addAddressRequest struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a *API) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	var req addAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	address, err := a.addresses.Add(r.Context(), mustUser(r).ID, service.AddressInput{
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, toAddressDTO(address), "address added")
}

type updateAddressRequest struct {
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
}

func (a *API) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req updateAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}

	address, err := a.addresses.Update(r.Context(), mustUser(r).ID, service.UpdateAddressInput{
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, toAddressDTO(address), "address updated")
}
