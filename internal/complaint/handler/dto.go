package handler

import (
	"time"

	"careline/internal/attachment"
	"careline/internal/complaint/models"
	"careline/internal/history"
)

type submitResponse struct {
	ComplaintID int64  `json:"complaint_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Attachments int    `json:"attachments"`
}

type updateStatusRequest struct {
	NewStatus         string `json:"new_status"`
	Remarks           string `json:"remarks,omitempty"`
	ResolutionDetails string `json:"resolution_details,omitempty"`
}

type listItemJSON struct {
	ComplaintID       int64     `json:"complaint_id"`
	ComplaintDate     time.Time `json:"complaint_date"`
	Details           string    `json:"details"`
	CurrentStatus     string    `json:"current_status"`
	Priority          string    `json:"priority"`
	PatientName       string    `json:"patient_name"`
	NationalID        string    `json:"national_id"`
	ContactNumber     string    `json:"contact_number"`
	DepartmentName    string    `json:"department_name"`
	ComplaintTypeName string    `json:"complaint_type_name"`
	SubTypeName       *string   `json:"sub_type_name,omitempty"`
	EmployeeName      *string   `json:"employee_name,omitempty"`
}

type listResponse struct {
	Data  []listItemJSON `json:"data"`
	Count int            `json:"count"`
}

type attachmentJSON struct {
	AttachmentID int64  `json:"attachment_id"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
	FileSize     int64  `json:"file_size"`
	FileType     string `json:"file_type"`
}

type historyEntryJSON struct {
	HistoryID    int64     `json:"history_id"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Stage        string    `json:"stage"`
	Remarks      string    `json:"remarks"`
	OldStatus    string    `json:"old_status,omitempty"`
	NewStatus    string    `json:"new_status"`
	RecordedAt   time.Time `json:"recorded_at"`
}

type detailJSON struct {
	listItemJSON
	Gender            string             `json:"gender"`
	ResolutionDetails *string            `json:"resolution_details,omitempty"`
	ResolutionDate    *time.Time         `json:"resolution_date,omitempty"`
	Attachments       []attachmentJSON   `json:"attachments"`
	History           []historyEntryJSON `json:"history"`
}

type detailEnvelope struct {
	Data detailJSON `json:"data"`
}

type patientComplaintJSON struct {
	listItemJSON
	ResolutionDetails *string            `json:"resolution_details,omitempty"`
	ResolutionDate    *time.Time         `json:"resolution_date,omitempty"`
	History           []historyEntryJSON `json:"history"`
}

type patientComplaintsResponse struct {
	Data  []patientComplaintJSON `json:"data"`
	Count int                    `json:"count"`
}

type verifyResponse struct {
	Exists         bool   `json:"exists"`
	PatientName    string `json:"patient_name,omitempty"`
	ComplaintCount int64  `json:"complaint_count"`
}

func toListItem(it *models.ListItem) listItemJSON {
	return listItemJSON{
		ComplaintID:       it.ID,
		ComplaintDate:     it.ComplaintDate,
		Details:           it.Details,
		CurrentStatus:     it.CurrentStatus.String(),
		Priority:          it.Priority,
		PatientName:       it.PatientName,
		NationalID:        it.NationalID,
		ContactNumber:     it.ContactNumber,
		DepartmentName:    it.DepartmentName,
		ComplaintTypeName: it.ComplaintTypeName,
		SubTypeName:       it.SubTypeName,
		EmployeeName:      it.EmployeeName,
	}
}

func toListItems(items []models.ListItem) []listItemJSON {
	out := make([]listItemJSON, 0, len(items))
	for i := range items {
		out = append(out, toListItem(&items[i]))
	}
	return out
}

func toAttachments(atts []attachment.Attachment) []attachmentJSON {
	out := make([]attachmentJSON, 0, len(atts))
	for _, a := range atts {
		out = append(out, attachmentJSON{
			AttachmentID: a.ID,
			FileName:     a.FileName,
			FilePath:     a.FilePath,
			FileSize:     a.FileSize,
			FileType:     a.MIMEType,
		})
	}
	return out
}

func toHistory(entries []history.Entry) []historyEntryJSON {
	out := make([]historyEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryJSON{
			HistoryID:    e.ID,
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			Stage:        e.Stage,
			Remarks:      e.Remarks,
			OldStatus:    e.OldStatus,
			NewStatus:    e.NewStatus,
			RecordedAt:   e.RecordedAt,
		})
	}
	return out
}

func toDetail(d *models.Detail) detailJSON {
	return detailJSON{
		listItemJSON:      toListItem(&d.ListItem),
		Gender:            d.Gender,
		ResolutionDetails: d.ResolutionDetails,
		ResolutionDate:    d.ResolutionDate,
		Attachments:       toAttachments(d.Attachments),
		History:           toHistory(d.History),
	}
}

func toPatientComplaint(pc *models.PatientComplaint) patientComplaintJSON {
	return patientComplaintJSON{
		listItemJSON:      toListItem(&pc.ListItem),
		ResolutionDetails: pc.ResolutionDetails,
		ResolutionDate:    pc.ResolutionDate,
		History:           toHistory(pc.History),
	}
}
