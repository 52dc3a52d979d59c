package domain

// Entry represents one row of the uploaded ledger spreadsheet.
// Every business field is stored exactly as the spreadsheet exported it, as
// text, even when semantically numeric or temporal. Exports are inconsistent
// enough ("1,234.50", "(500)", "500-", mixed date formats) that interpretation
// has to happen at query time, never at ingestion time. ExcelRowNumber is the
// only numeric field and is the stable sort key for the collection.
//
// The json/bson tag names are part of the wire contract: the intent
// classifier's parameter extraction rules and the query catalogue both refer
// to them case-sensitively.
type Entry struct {
	ZvolvWID                     string `json:"zvolvWID" bson:"zvolvWID"`
	WID                          string `json:"WID" bson:"WID"`
	DocumentDate                 string `json:"DocumentDate" bson:"DocumentDate"`
	PostingDate                  string `json:"PostingDate" bson:"PostingDate"`
	JournalEntrySrNo             string `json:"JournalEntrySrNo" bson:"JournalEntrySrNo"`
	JournalEntryBusinessArea     string `json:"JournalEntryBusinessArea" bson:"JournalEntryBusinessArea"`
	JournalEntryAccountType      string `json:"JournalEntryAccountType" bson:"JournalEntryAccountType"`
	JournalEntryType             string `json:"JournalEntryType" bson:"JournalEntryType"`
	JournalEntryVendorName       string `json:"JournalEntryVendorName" bson:"JournalEntryVendorName"`
	JournalEntryVendorNumber     string `json:"JournalEntryVendorNumber" bson:"JournalEntryVendorNumber"`
	JournalEntryCostCenter       string `json:"JournalEntryCostCenter" bson:"JournalEntryCostCenter"`
	JournalEntryProfitCenter     string `json:"JournalEntryProfitCenter" bson:"JournalEntryProfitCenter"`
	JournalEntryAmount           string `json:"JournalEntryAmount" bson:"JournalEntryAmount"`
	JournalEntryPersonalNumber   string `json:"JournalEntryPersonalNumber" bson:"JournalEntryPersonalNumber"`
	InitiatorName                string `json:"InitiatorName" bson:"InitiatorName"`
	InitiatorStatus              string `json:"InitiatorStatus" bson:"InitiatorStatus"`
	L1ApproverName               string `json:"L1ApproverName" bson:"L1ApproverName"`
	L1ApproverStatus             string `json:"L1ApproverStatus" bson:"L1ApproverStatus"`
	L2ApproverName               string `json:"L2ApproverName" bson:"L2ApproverName"`
	L2ApproverStatus             string `json:"L2ApproverStatus" bson:"L2ApproverStatus"`
	DocumentNumberOrErrorMessage string `json:"DocumentNumberOrErrorMessage" bson:"DocumentNumberOrErrorMessage"`
	ReversalDocumentNumber       string `json:"ReversalDocumentNumber" bson:"ReversalDocumentNumber"`
	ExcelRowNumber               int    `json:"excelRowNumber" bson:"excelRowNumber"`
}

// Field names as they appear on the wire. Used for column listings, text
// search and sort-key validation.
const (
	FieldZvolvWID        = "zvolvWID"
	FieldWID             = "WID"
	FieldDocumentDate    = "DocumentDate"
	FieldPostingDate     = "PostingDate"
	FieldSrNo            = "JournalEntrySrNo"
	FieldBusinessArea    = "JournalEntryBusinessArea"
	FieldAccountType     = "JournalEntryAccountType"
	FieldEntryType       = "JournalEntryType"
	FieldVendorName      = "JournalEntryVendorName"
	FieldVendorNumber    = "JournalEntryVendorNumber"
	FieldCostCenter      = "JournalEntryCostCenter"
	FieldProfitCenter    = "JournalEntryProfitCenter"
	FieldAmount          = "JournalEntryAmount"
	FieldPersonalNumber  = "JournalEntryPersonalNumber"
	FieldInitiatorName   = "InitiatorName"
	FieldInitiatorStatus = "InitiatorStatus"
	FieldL1Name          = "L1ApproverName"
	FieldL1Status        = "L1ApproverStatus"
	FieldL2Name          = "L2ApproverName"
	FieldL2Status        = "L2ApproverStatus"
	FieldDocumentNumber  = "DocumentNumberOrErrorMessage"
	FieldReversalDoc     = "ReversalDocumentNumber"
	FieldExcelRowNumber  = "excelRowNumber"
)

// Fields lists every text column in spreadsheet order. Upload maps columns by
// position against this list; text search scans all of them.
var Fields = []string{
	FieldZvolvWID,
	FieldWID,
	FieldDocumentDate,
	FieldPostingDate,
	FieldSrNo,
	FieldBusinessArea,
	FieldAccountType,
	FieldEntryType,
	FieldVendorName,
	FieldVendorNumber,
	FieldCostCenter,
	FieldProfitCenter,
	FieldAmount,
	FieldPersonalNumber,
	FieldInitiatorName,
	FieldInitiatorStatus,
	FieldL1Name,
	FieldL1Status,
	FieldL2Name,
	FieldL2Status,
	FieldDocumentNumber,
	FieldReversalDoc,
}

// Field returns the value of a text column by its wire name. Unknown names
// return the empty string.
func (e *Entry) Field(name string) string {
	switch name {
	case FieldZvolvWID:
		return e.ZvolvWID
	case FieldWID:
		return e.WID
	case FieldDocumentDate:
		return e.DocumentDate
	case FieldPostingDate:
		return e.PostingDate
	case FieldSrNo:
		return e.JournalEntrySrNo
	case FieldBusinessArea:
		return e.JournalEntryBusinessArea
	case FieldAccountType:
		return e.JournalEntryAccountType
	case FieldEntryType:
		return e.JournalEntryType
	case FieldVendorName:
		return e.JournalEntryVendorName
	case FieldVendorNumber:
		return e.JournalEntryVendorNumber
	case FieldCostCenter:
		return e.JournalEntryCostCenter
	case FieldProfitCenter:
		return e.JournalEntryProfitCenter
	case FieldAmount:
		return e.JournalEntryAmount
	case FieldPersonalNumber:
		return e.JournalEntryPersonalNumber
	case FieldInitiatorName:
		return e.InitiatorName
	case FieldInitiatorStatus:
		return e.InitiatorStatus
	case FieldL1Name:
		return e.L1ApproverName
	case FieldL1Status:
		return e.L1ApproverStatus
	case FieldL2Name:
		return e.L2ApproverName
	case FieldL2Status:
		return e.L2ApproverStatus
	case FieldDocumentNumber:
		return e.DocumentNumberOrErrorMessage
	case FieldReversalDoc:
		return e.ReversalDocumentNumber
	}
	return ""
}

// SetField assigns a text column by wire name. Upload uses this to map
// spreadsheet columns positionally.
func (e *Entry) SetField(name, value string) {
	switch name {
	case FieldZvolvWID:
		e.ZvolvWID = value
	case FieldWID:
		e.WID = value
	case FieldDocumentDate:
		e.DocumentDate = value
	case FieldPostingDate:
		e.PostingDate = value
	case FieldSrNo:
		e.JournalEntrySrNo = value
	case FieldBusinessArea:
		e.JournalEntryBusinessArea = value
	case FieldAccountType:
		e.JournalEntryAccountType = value
	case FieldEntryType:
		e.JournalEntryType = value
	case FieldVendorName:
		e.JournalEntryVendorName = value
	case FieldVendorNumber:
		e.JournalEntryVendorNumber = value
	case FieldCostCenter:
		e.JournalEntryCostCenter = value
	case FieldProfitCenter:
		e.JournalEntryProfitCenter = value
	case FieldAmount:
		e.JournalEntryAmount = value
	case FieldPersonalNumber:
		e.JournalEntryPersonalNumber = value
	case FieldInitiatorName:
		e.InitiatorName = value
	case FieldInitiatorStatus:
		e.InitiatorStatus = value
	case FieldL1Name:
		e.L1ApproverName = value
	case FieldL1Status:
		e.L1ApproverStatus = value
	case FieldL2Name:
		e.L2ApproverName = value
	case FieldL2Status:
		e.L2ApproverStatus = value
	case FieldDocumentNumber:
		e.DocumentNumberOrErrorMessage = value
	case FieldReversalDoc:
		e.ReversalDocumentNumber = value
	}
}

// IsField reports whether name is a known text column.
func IsField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
