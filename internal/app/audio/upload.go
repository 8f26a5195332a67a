package audio

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "lyriq/internal/app/errors"
)

// Upload is one user-supplied audio file. It is immutable once built:
// the bytes are copied in and every Reader call starts from the beginning.
type Upload struct {
	filename    string
	contentType string
	data        []byte
}

type uploadMeta struct {
	Filename string `validate:"required,audioext"`
	Data     []byte `validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("audioext", func(fl validator.FieldLevel) bool {
		return FormatFromFilename(fl.Field().String()).IsAllowed()
	})
	return v
}

// ValidateFilename checks filename against the extension allow-list.
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return apperrors.ErrEmptyFilename
	}
	if !FormatFromFilename(filename).IsAllowed() {
		return apperrors.Wrapf(apperrors.ErrUnsupportedExtension, "%q must be one of %s", filename, AcceptAttribute())
	}
	return nil
}

// NewUpload builds an Upload. An empty or generic contentType is replaced
// by the type implied by the file extension.
func NewUpload(filename, contentType string, data []byte) (*Upload, error) {
	if err := validate.Struct(uploadMeta{Filename: filename, Data: data}); err != nil {
		return nil, translate(filename, err)
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || mediaType == "application/octet-stream" {
		contentType = FormatFromFilename(filename).MIMEType()
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	return &Upload{
		filename:    filename,
		contentType: contentType,
		data:        copied,
	}, nil
}

// FromMultipart reads a single multipart file part into an Upload.
func FromMultipart(header *multipart.FileHeader) (*Upload, error) {
	if header == nil {
		return nil, apperrors.ErrEmptyUpload
	}
	if err := ValidateFilename(header.Filename); err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read uploaded file")
	}

	return NewUpload(header.Filename, header.Header.Get("Content-Type"), data)
}

func translate(filename string, err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return err
	}
	switch field := validationErrs[0]; {
	case field.Field() == "Data":
		return apperrors.Wrapf(apperrors.ErrEmptyUpload, "%q", filename)
	case field.Tag() == "required":
		return apperrors.ErrEmptyFilename
	default:
		return ValidateFilename(filename)
	}
}

// Reader returns a new reader positioned at the start of the audio bytes.
func (u *Upload) Reader() io.Reader {
	return bytes.NewReader(u.data)
}

func (u *Upload) Filename() string {
	return u.filename
}

func (u *Upload) ContentType() string {
	return u.contentType
}

func (u *Upload) Size() int64 {
	return int64(len(u.data))
}

func (u *Upload) Format() Format {
	return FormatFromFilename(u.filename)
}
