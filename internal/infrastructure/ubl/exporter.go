// Package ubl genera el XML UBL 2.1 de una factura y su huella canónica.
// La huella es el SHA-256 del documento canonicalizado (C14N): dos facturas
// con el mismo contenido producen siempre la misma huella.
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/tu-usuario/facturya-api/internal/application/billing"
	calc "github.com/tu-usuario/facturya-api/internal/domain/billing"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
)

// Namespaces oficiales UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

var _ appbilling.UBLExporter = (*Exporter)(nil)

// Exporter construye el documento Invoice según UBL 2.1.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Build genera el []byte del documento Invoice.
func (e *Exporter) Build(
	invoice *entity.Invoice,
	company *entity.Company,
	customer *entity.Customer,
	lines []*entity.InvoiceLine,
	totals calc.InvoiceTotals,
) ([]byte, error) {
	if invoice == nil || company == nil || customer == nil {
		return nil, fmt.Errorf("ubl: faltan invoice, company o customer")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "cbc:UBLVersionID", "2.1")
	cbc(root, "cbc:ID", invoice.Prefix+invoice.Number)
	cbc(root, "cbc:IssueDate", invoice.Date.Format("2006-01-02"))
	cbc(root, "cbc:InvoiceTypeCode", "380") // factura comercial
	cbc(root, "cbc:DocumentCurrencyCode", invoice.Currency)
	cbc(root, "cbc:LineCountNumeric", fmt.Sprintf("%d", len(lines)))
	if invoice.Notes != "" {
		cbc(root, "cbc:Note", invoice.Notes)
	}

	writeParty(root, "cac:AccountingSupplierParty", company.Name, company.TaxID, company.Address, company.Email)
	writeParty(root, "cac:AccountingCustomerParty", customer.Name, customer.TaxID, customer.Address, customer.Email)

	e.writeTaxTotal(root, invoice.Currency, totals)
	e.writeMonetaryTotal(root, invoice.Currency, totals)

	for i, l := range lines {
		e.writeInvoiceLine(root, i+1, invoice.Currency, l)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar documento: %w", err)
	}
	return out, nil
}

// CanonicalHash devuelve el SHA-256 hex del documento canonicalizado (C14N).
func (e *Exporter) CanonicalHash(xmlDoc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlDoc))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar documento: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// writeTaxTotal: cac:TaxTotal con un cac:TaxSubtotal por banda de IVA,
// en orden ascendente de tarifa para un documento estable.
func (e *Exporter) writeTaxTotal(root *etree.Element, currency string, totals calc.InvoiceTotals) {
	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", totals.TotalVAT, currency)

	keys := make([]string, 0, len(totals.VATBreakdown))
	for k := range totals.VATBreakdown {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := decimal.NewFromString(keys[i])
		b, _ := decimal.NewFromString(keys[j])
		return a.LessThan(b)
	})
	for _, k := range keys {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(sub, "cbc:TaxAmount", totals.VATBreakdown[k], currency)
		category := sub.CreateElement("cac:TaxCategory")
		cbc(category, "cbc:Percent", k)
		scheme := category.CreateElement("cac:TaxScheme")
		cbc(scheme, "cbc:ID", "VAT")
	}
}

func (e *Exporter) writeMonetaryTotal(root *etree.Element, currency string, totals calc.InvoiceTotals) {
	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "cbc:LineExtensionAmount", totals.Subtotal, currency)
	amount(total, "cbc:AllowanceTotalAmount", totals.TotalDiscount, currency)
	amount(total, "cbc:TaxExclusiveAmount", totals.TaxableAmount, currency)
	amount(total, "cbc:TaxInclusiveAmount", totals.GrandTotal, currency)
	amount(total, "cbc:PayableAmount", totals.GrandTotal, currency)
}

func (e *Exporter) writeInvoiceLine(root *etree.Element, position int, currency string, l *entity.InvoiceLine) {
	item := calc.LineItem{
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		VATRate:        l.VATRate,
		DiscountAmount: l.DiscountAmount,
	}
	if l.DiscountPercent.Valid {
		p := l.DiscountPercent.Decimal
		item.DiscountPercent = &p
	}
	result := calc.CalculateLine(item)

	line := root.CreateElement("cac:InvoiceLine")
	cbc(line, "cbc:ID", fmt.Sprintf("%d", position))
	qty := line.CreateElement("cbc:InvoicedQuantity")
	if l.Unit != "" {
		qty.CreateAttr("unitCode", l.Unit)
	}
	qty.SetText(l.Quantity.String())
	amount(line, "cbc:LineExtensionAmount", result.TaxableAmount, currency)

	if !result.DiscountAmount.IsZero() {
		allowance := line.CreateElement("cac:AllowanceCharge")
		cbc(allowance, "cbc:ChargeIndicator", "false")
		amount(allowance, "cbc:Amount", result.DiscountAmount, currency)
	}

	taxTotal := line.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", result.VATAmount, currency)

	itemEl := line.CreateElement("cac:Item")
	cbc(itemEl, "cbc:Description", l.Description)

	price := line.CreateElement("cac:Price")
	amount(price, "cbc:PriceAmount", l.UnitPrice, currency)
}

func writeParty(root *etree.Element, wrapper, name, taxID, address, email string) {
	party := root.CreateElement(wrapper).CreateElement("cac:Party")
	partyName := party.CreateElement("cac:PartyName")
	cbc(partyName, "cbc:Name", name)
	taxScheme := party.CreateElement("cac:PartyTaxScheme")
	cbc(taxScheme, "cbc:CompanyID", taxID)
	if address != "" {
		postal := party.CreateElement("cac:PostalAddress")
		addrLine := postal.CreateElement("cac:AddressLine")
		cbc(addrLine, "cbc:Line", address)
	}
	if email != "" {
		contact := party.CreateElement("cac:Contact")
		cbc(contact, "cbc:ElectronicMail", email)
	}
}

func cbc(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func amount(parent *etree.Element, tag string, v decimal.Decimal, currency string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currency)
	el.SetText(v.StringFixed(2))
}
