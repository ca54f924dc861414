package domain

// DocumentType classifies the kind of document submitted for processing.
// It drives OCR provider selection and the retry policy.
type DocumentType string

const (
	DocumentTypeReceiptImage DocumentType = "receipt_image"
	DocumentTypeInvoice      DocumentType = "invoice"
)

// ValidDocumentTypes lists the document types accepted at upload.
var ValidDocumentTypes = map[DocumentType]bool{
	DocumentTypeReceiptImage: true,
	DocumentTypeInvoice:      true,
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeHTML FileType = "html"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"text/html":       FileTypeHTML,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"html": FileTypeHTML,
	"htm":  FileTypeHTML,
}

// FileTypesForDocument restricts which file types each document type accepts.
var FileTypesForDocument = map[DocumentType]map[FileType]bool{
	DocumentTypeReceiptImage: {FileTypeJPG: true, FileTypePNG: true},
	DocumentTypeInvoice:      {FileTypePDF: true, FileTypeHTML: true},
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// ReceiptStatus is the user-visible receipt state machine.
// processing -> completed | failed; completed -> validated.
// validated and failed are terminal for the OCR pipeline.
type ReceiptStatus string

const (
	ReceiptStatusProcessing ReceiptStatus = "processing"
	ReceiptStatusCompleted  ReceiptStatus = "completed"
	ReceiptStatusFailed     ReceiptStatus = "failed"
	ReceiptStatusValidated  ReceiptStatus = "validated"
)

// JobStatus is the queue-side lifecycle of a processing job.
// waiting -> active -> completed | failed | delayed (between retries).
type JobStatus string

const (
	JobStatusWaiting   JobStatus = "waiting"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusDelayed   JobStatus = "delayed"
)

// DocumentFormat is the heuristic classification of the source document.
type DocumentFormat string

const (
	DocumentFormatSupermarket DocumentFormat = "supermarket"
	DocumentFormatGrocery     DocumentFormat = "grocery"
	DocumentFormatRestaurant  DocumentFormat = "restaurant"
	DocumentFormatUnknown     DocumentFormat = "unknown"
)

// MatchType identifies which catalog-matching strategy produced a match.
type MatchType string

const (
	MatchTypeExactBarcode MatchType = "exact_barcode"
	MatchTypeExactName    MatchType = "exact_name"
	MatchTypeFuzzyName    MatchType = "fuzzy_name"
	MatchTypeKeyword      MatchType = "keyword"
)

// matchTypePriority ranks match types for tie-breaking between equal scores.
var matchTypePriority = map[MatchType]int{
	MatchTypeExactBarcode: 4,
	MatchTypeExactName:    3,
	MatchTypeFuzzyName:    2,
	MatchTypeKeyword:      1,
}

// MatchTypePriority returns the tie-break rank of a match type (higher wins).
func MatchTypePriority(t MatchType) int {
	return matchTypePriority[t]
}

// MatchStatus classifies the quality of the best match for a line item.
type MatchStatus string

const (
	MatchStatusExact    MatchStatus = "exact_match"
	MatchStatusGood     MatchStatus = "good_match"
	MatchStatusPossible MatchStatus = "possible_match"
	MatchStatusNone     MatchStatus = "no_match"
)

// UnitType is the sale unit of a catalog product.
type UnitType string

const (
	UnitTypePiece UnitType = "piece"
	UnitTypeKg    UnitType = "kg"
	UnitTypeGram  UnitType = "g"
	UnitTypeLiter UnitType = "l"
	UnitTypeMl    UnitType = "ml"
	UnitTypePack  UnitType = "pack"
)

// ValidUnitTypes lists the accepted product unit types.
var ValidUnitTypes = map[UnitType]bool{
	UnitTypePiece: true,
	UnitTypeKg:    true,
	UnitTypeGram:  true,
	UnitTypeLiter: true,
	UnitTypeMl:    true,
	UnitTypePack:  true,
}
