package pipeline

import "fmt"

// Stage — этап конвейера обработки ответа
type Stage string

const (
	StageIngest     Stage = "ingest"
	StageExtract    Stage = "extract"
	StageTranscribe Stage = "transcribe"
	StageScore      Stage = "score"
)

// StageError — невосстановимая ошибка этапа, прерывает обработку ответа
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func newStageError(stage Stage, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}
