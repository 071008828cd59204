package smart

import (
	"encoding/json"
	"strconv"

	"github.com/jhoicas/facturacion-ve/internal/application/billing"
	"github.com/jhoicas/facturacion-ve/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Tipos de documento de la imprenta.
const (
	docTypeInvoice       = 1
	docTypeCreditNote    = 2
	docTypeDebitNote     = 3
	docTypeDeliveryOrder = 4
)

var documentTypes = map[entity.DocumentKind]int{
	entity.KindInvoice:       docTypeInvoice,
	entity.KindCreditNote:    docTypeCreditNote,
	entity.KindDebitNote:     docTypeDebitNote,
	entity.KindDeliveryOrder: docTypeDeliveryOrder,
}

var idTypes = map[string]int{
	entity.DocumentTypeV: 1,
	entity.DocumentTypeE: 2,
	entity.DocumentTypeJ: 3,
	entity.DocumentTypeP: 4,
	entity.DocumentTypeG: 5,
}

// request es el cuerpo que recibe la API de la imprenta digital.
type request struct {
	RIF             string        `json:"rif"`
	TrackingID      string        `json:"trackingid"`
	CustomerName    string        `json:"nombrecliente"`
	CustomerTaxID   string        `json:"rifcedulacliente"`
	CustomerEmail   string        `json:"emailcliente"`
	CustomerPhone   string        `json:"telefonocliente"`
	CustomerIDType  int           `json:"idtipocedulacliente"`
	DocumentType    int           `json:"idtipodocumento"`
	CustomerAddress string        `json:"direccioncliente"`
	Subtotal        json.Number   `json:"subtotal"`
	Exempt          json.Number   `json:"exento"`
	RateGeneral     int           `json:"tasag"`
	BaseGeneral     json.Number   `json:"baseg"`
	TaxGeneral      json.Number   `json:"impuestog"`
	RateReduced     int           `json:"tasar"`
	BaseReduced     json.Number   `json:"baser"`
	TaxReduced      json.Number   `json:"impuestor"`
	RateAdditional  int           `json:"tasaa"`
	BaseAdditional  json.Number   `json:"basea"`
	TaxAdditional   json.Number   `json:"impuestoa"`
	RateIGTF        int           `json:"tasaigtf"`
	BaseIGTF        json.Number   `json:"baseigtf"`
	TaxIGTF         json.Number   `json:"impuestoigtf"`
	Total           json.Number   `json:"total"`
	SendMail        string        `json:"sendmail"`
	Related         string        `json:"relacionado"`
	Branch          string        `json:"sucursal"`
	InternalNumber  string        `json:"numerointerno"`
	ExchangeRate    json.Number   `json:"tasacambio"`
	Observation     string        `json:"Observacion"`
	Lines           []requestLine `json:"cuerpofactura"`
	PaymentMethods  string        `json:"formasdepago"`
}

type requestLine struct {
	Code        string      `json:"codigo"`
	Description string      `json:"descripcion"`
	Comment     string      `json:"comentario"`
	Price       json.Number `json:"precio"`
	Quantity    json.Number `json:"cantidad"`
	Rate        int         `json:"tasa"`
	Tax         json.Number `json:"impuesto"`
	Discount    json.Number `json:"descuento"`
	Exempt      bool        `json:"exento"`
	Amount      json.Number `json:"monto"`
}

// response es la respuesta de la imprenta. data llega vacío cuando rechaza el documento.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		DocumentNumber string `json:"numerodocumento"`
		Date           string `json:"fecha"`
		Time           string `json:"hora"`
		PDFURL         string `json:"urlpdf"`
	} `json:"data"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func quantity(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

var hundred = decimal.NewFromInt(100)

func buildRequest(req billing.ControlNumberRequest, sendEmail bool) request {
	doc, t := req.Document, req.Document.Totals
	out := request{
		RIF:             req.Company.RIF,
		TrackingID:      doc.ID,
		CustomerName:    req.Customer.Name,
		CustomerTaxID:   req.Customer.TaxID,
		CustomerEmail:   req.Customer.Email,
		CustomerPhone:   req.Customer.Phone,
		CustomerIDType:  idTypes[req.Customer.DocumentType],
		DocumentType:    documentTypes[doc.Kind],
		CustomerAddress: req.Customer.FiscalAddress,
		Subtotal:        amount(t.SubtotalGross),
		Exempt:          amount(t.Exempt),
		RateGeneral:     entity.VATRateGeneral,
		BaseGeneral:     amount(t.BaseGeneral),
		TaxGeneral:      amount(t.VATGeneral),
		RateReduced:     entity.VATRateReduced,
		BaseReduced:     amount(t.BaseReduced),
		TaxReduced:      amount(t.VATReduced),
		RateAdditional:  entity.VATRateAdditional,
		BaseAdditional:  amount(t.BaseAdditional),
		TaxAdditional:   amount(t.VATAdditional),
		RateIGTF:        entity.IGTFRate,
		BaseIGTF:        amount(t.IGTFBase),
		TaxIGTF:         amount(t.IGTFAmount),
		Total:           amount(t.Total),
		SendMail:        "0",
		InternalNumber:  strconv.FormatInt(doc.Number, 10),
		ExchangeRate:    json.Number(doc.ExchangeRate.StringFixed(4)),
		Observation:     observation(doc),
		Lines:           []requestLine{},
	}
	if sendEmail {
		out.SendMail = "1"
	}
	if req.Related != nil {
		out.Related = req.Related.ControlNumber
	}

	switch {
	case doc.Invoice != nil:
		for _, l := range doc.Invoice.Lines {
			out.Lines = append(out.Lines, requestLine{
				Code:        l.ProductID,
				Description: l.Description,
				Price:       amount(l.UnitPrice),
				Quantity:    quantity(l.Quantity),
				Rate:        lineRate(l.VATRate, l.Exempt),
				Tax:         amount(l.VATAmount),
				Discount:    quantity(l.Discount),
				Exempt:      l.Exempt,
				Amount:      amount(l.Total),
			})
		}
	case doc.Note != nil:
		for _, l := range doc.Note.Lines {
			rate := lineRate(l.VATRate, l.Exempt)
			out.Lines = append(out.Lines, requestLine{
				Code:        l.ProductID,
				Description: l.Description,
				Price:       amount(l.UnitPrice),
				Quantity:    quantity(l.Quantity),
				Rate:        rate,
				Tax:         amount(l.Total.Mul(decimal.NewFromInt(int64(rate))).Div(hundred)),
				Discount:    quantity(l.Discount),
				Exempt:      l.Exempt,
				Amount:      amount(l.Total),
			})
		}
	case doc.Delivery != nil:
		for _, g := range doc.Delivery.Goods {
			out.Lines = append(out.Lines, requestLine{
				Code:        g.ProductID,
				Description: g.Description,
				Price:       amount(decimal.Zero),
				Quantity:    quantity(g.Quantity),
				Tax:         amount(decimal.Zero),
				Discount:    quantity(decimal.Zero),
				Amount:      amount(decimal.Zero),
			})
		}
	}
	return out
}

func lineRate(rate int, exempt bool) int {
	if exempt {
		return entity.VATRateExempt
	}
	return rate
}

func observation(doc *entity.Document) string {
	switch {
	case doc.Note != nil && doc.Note.Description != "":
		return doc.Note.Description
	case doc.Kind == entity.KindDeliveryOrder:
		return "Orden de entrega generada automáticamente."
	}
	return "Documento generado automáticamente."
}
