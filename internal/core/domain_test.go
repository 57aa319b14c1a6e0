package core

import (
	"errors"
	"testing"
)

func TestTask_Validate(t *testing.T) {
	valid := Task{
		Name: "Deep work", CategoryID: 1,
		Type: TaskTime, Frequency: Daily, AllocatedMinutes: 90, Active: true,
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid task", func(*Task) {}, nil},
		{"empty name", func(tk *Task) { tk.Name = "  " }, ErrEmptyName},
		{"bad type", func(tk *Task) { tk.Type = "HOURS" }, ErrInvalidTaskType},
		{"bad frequency", func(tk *Task) { tk.Frequency = "fortnightly" }, ErrInvalidFrequency},
		{"negative allocation", func(tk *Task) { tk.AllocatedMinutes = -1 }, ErrInvalidMinutes},
		{"negative target", func(tk *Task) { tk.TargetValue = -5 }, ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTask_TargetPerPeriod(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want float64
	}{
		{"time task uses allocated minutes", Task{Type: TaskTime, AllocatedMinutes: 45}, 45},
		{"count task uses target value", Task{Type: TaskCount, TargetValue: 12}, 12},
		{"boolean task targets one completion", Task{Type: TaskBoolean}, 1},
		{"time task with missing allocation defaults to zero", Task{Type: TaskTime}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.TargetPerPeriod(); got != tt.want {
				t.Errorf("TargetPerPeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeEntry_Validate(t *testing.T) {
	valid := TimeEntry{TaskID: 1, Date: NewDate(2024, 3, 13), Minutes: 30}

	tests := []struct {
		name    string
		mutate  func(*TimeEntry)
		wantErr error
	}{
		{"valid entry", func(*TimeEntry) {}, nil},
		{"missing task", func(e *TimeEntry) { e.TaskID = 0 }, ErrUnknownTask},
		{"zero date", func(e *TimeEntry) { e.Date = Date{} }, ErrInvalidDate},
		{"negative minutes", func(e *TimeEntry) { e.Minutes = -10 }, ErrInvalidMinutes},
		{"negative count", func(e *TimeEntry) { e.Count = -1 }, ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid
			tt.mutate(&entry)
			err := entry.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-13 ")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.String() != "2024-03-13" {
		t.Errorf("ParseDate() = %s, want 2024-03-13", d)
	}

	if _, err := ParseDate("13/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDate(bad) = %v, want ErrInvalidDate", err)
	}
}

func TestPeriodStatus_Validate(t *testing.T) {
	valid := PeriodStatus{TaskID: 1, Scope: ScopeWeekly, PeriodKey: "2024-03-11"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := PeriodStatus{TaskID: 1, Scope: "hourly", PeriodKey: "2024-03-11"}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("Validate() = %v, want ErrInvalidScope", err)
	}
}
