package services

import (
	"encoding/xml"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"
	"github.com/vendorpay/backend/internal/models"
	"github.com/vendorpay/backend/internal/store"
)

// ExportService renders the payment history as ISO 20022 credit transfer
// messages, one pacs.008 per completed payment.
type ExportService struct {
	store store.Store
}

func NewExportService(st store.Store) *ExportService {
	return &ExportService{store: st}
}

// ExportHistory exports payment history as ISO20022
// @Summary Export payment history
// @Description Render every completed payment as a pacs.008 credit transfer message
// @Tags iso20022
// @Produce json
// @Success 200 {object} object{messageType=string,count=int,messages=[]string}
// @Failure 500 {object} ErrorResponse
// @Router /payments/export [get]
func (es *ExportService) ExportHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := es.store.GetHistory(ctx)
	if err != nil {
		log.Printf("[EXPORT] Failed to load history: %v", err)
		SendErrorResponse(w, "Failed to load payment history", http.StatusInternalServerError, nil)
		return
	}
	accounts, err := es.store.GetAccounts(ctx)
	if err != nil {
		SendErrorResponse(w, "Failed to load accounts", http.StatusInternalServerError, nil)
		return
	}

	messages := make([]string, 0, len(history))
	for i := range history {
		doc, err := es.CreatePacs008(&history[i], accounts)
		if err != nil {
			SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
			return
		}
		xmlData, err := es.ConvertToXML(doc)
		if err != nil {
			SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
			return
		}
		messages = append(messages, xmlData)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"messageType": "pacs.008.001.08",
		"count":       len(messages),
		"messages":    messages,
	})
}

// CreatePacs008 creates a pacs.008 FIToFICustomerCreditTransfer message
// for one completed payment. The debtor is the debited account, the
// creditor is the vendor.
func (es *ExportService) CreatePacs008(rec *models.PaymentRecord, accounts []models.Account) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	msgId := uuid.New().String()
	settlementDate := rec.PaidAt
	amount := float64(rec.Amount) / 100

	debtorName := rec.AccountID
	if acct := findAccount(accounts, rec.AccountID); acct != nil {
		debtorName = acct.Name
	}

	doc := &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:   common.Max35Text(msgId),
			CreDtTm: common.ISODateTime(rec.PaidAt),
			NbOfTxs: "1",
			TtlIntrBkSttlmAmt: &pacs_v08.ActiveCurrencyAndAmount{
				Ccy:   common.ActiveCurrencyCode("USD"),
				Value: amount,
			},
			IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG", // Clearing
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    &[]common.Max35Text{common.Max35Text(rec.ID)}[0],
					EndToEndId: common.Max35Text(rec.ID),
					TxId:       &[]common.Max35Text{common.Max35Text(rec.ID)}[0],
				},
				IntrBkSttlmAmt: pacs_v08.ActiveCurrencyAndAmount{
					Ccy:   common.ActiveCurrencyCode("USD"),
					Value: amount,
				},
				IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
				ChrgBr:        "SLEV",
				DbtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier("VENDORPAY")}[0],
					},
				},
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(debtorName)}[0],
				},
				CdtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						ClrSysMmbId: &pacs_v08.ClearingSystemMemberIdentification2{
							MmbId: common.Max35Text(rec.VendorID),
						},
					},
				},
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(rec.VendorName)}[0],
				},
			},
		},
	}

	return doc, nil
}

// ConvertToXML converts an ISO20022 document to an XML string
func (es *ExportService) ConvertToXML(doc interface{}) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}
