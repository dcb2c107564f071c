package ffmpeg_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"starcut/internal/services"
	"starcut/internal/services/ffmpeg"
)

type stubExecutor struct {
	output string
	err    error
	calls  int
	args   [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	s.calls++
	cloned := append([]string(nil), args...)
	s.args = append(s.args, cloned)
	return s.output, s.err
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ffmpeg.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestTrimCopyBuildsStreamCopyArgs(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.TrimCopy(context.Background(), "/in.mp4", 1500, 2750, "/seg.mp4"); err != nil {
		t.Fatalf("TrimCopy returned error: %v", err)
	}
	got := strings.Join(exec.args[0], " ")
	want := "-y -ss 1.500 -i /in.mp4 -t 2.750 -c copy /seg.mp4"
	if got != want {
		t.Fatalf("unexpected args:\n got %q\nwant %q", got, want)
	}
}

func TestTrimTranscodeUsesFixedProfile(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.TrimTranscode(context.Background(), "/in.mp4", 0, 1000, "/seg.mp4"); err != nil {
		t.Fatalf("TrimTranscode returned error: %v", err)
	}
	got := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-c:v libx264", "-preset veryfast", "-crf 23", "-c:a aac", "-b:a 192k"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in args %q", fragment, got)
		}
	}
}

func TestConcatCopyUsesConcatDemuxer(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.ConcatCopy(context.Background(), "/list.txt", "/out.mp4"); err != nil {
		t.Fatalf("ConcatCopy returned error: %v", err)
	}
	got := strings.Join(exec.args[0], " ")
	want := "-y -f concat -safe 0 -i /list.txt -c copy /out.mp4"
	if got != want {
		t.Fatalf("unexpected args:\n got %q\nwant %q", got, want)
	}
}

func TestRunErrorsCarryDiagnosticOutput(t *testing.T) {
	exec := &stubExecutor{output: "moov atom not found", err: errors.New("exit status 1")}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = client.TrimCopy(context.Background(), "/in.mp4", 0, 1000, "/seg.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("expected diagnostic output in error, got %v", err)
	}
}

func TestRunErrorsIncludeContextAnnotations(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithPhase(services.WithPlanID(context.Background(), "proj-1"), "segment")
	err = client.TrimCopy(ctx, "/in.mp4", 0, 1000, "/seg.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "segment") || !strings.Contains(err.Error(), "proj-1") {
		t.Fatalf("expected phase and plan annotations in error, got %v", err)
	}
}

func TestListDevicesToleratesNonZeroExit(t *testing.T) {
	exec := &stubExecutor{output: "[0] Capture screen 0", err: errors.New("exit status 1")}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	text, err := client.ListDevices(context.Background(), "avfoundation")
	if err != nil {
		t.Fatalf("ListDevices returned error: %v", err)
	}
	if !strings.Contains(text, "Capture screen 0") {
		t.Fatalf("expected enumeration output, got %q", text)
	}
}

func TestListDevicesFailsWithoutOutput(t *testing.T) {
	exec := &stubExecutor{err: errors.New("no such binary")}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.ListDevices(context.Background(), "avfoundation"); err == nil {
		t.Fatal("expected error when the tool produced no output")
	}
}

func TestTimecode(t *testing.T) {
	cases := map[int64]string{
		0:     "0.000",
		7:     "0.007",
		1500:  "1.500",
		61042: "61.042",
		-5:    "0.000",
	}
	for input, want := range cases {
		if got := ffmpeg.Timecode(input); got != want {
			t.Fatalf("Timecode(%d) = %q, want %q", input, got, want)
		}
	}
}
