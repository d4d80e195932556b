package track

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// MediaPipeSource produces joint reports from a local camera: frames are
// captured with GoCV, encoded as JPEG, and handed to a MediaPipe Python
// subprocess over stdin/stdout (4-byte big-endian length prefix in, one
// JSON line of hand landmarks out).
type MediaPipeSource struct {
	deviceID int
	fps      int

	capture *gocv.VideoCapture
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader

	ch   chan Report
	stop chan struct{}
	done chan struct{}
}

// Camera capture settings. 640x480 keeps the landmark service comfortably
// real-time on laptop hardware.
const (
	captureWidth  = 640
	captureHeight = 480
	defaultFPS    = 15
)

// NewMediaPipeSource opens the camera and starts the landmark subprocess.
// fps <= 0 selects the default capture rate.
func NewMediaPipeSource(deviceID, fps int) (*MediaPipeSource, error) {
	if fps <= 0 {
		fps = defaultFPS
	}

	scriptPath := findLandmarkScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}

	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}
	capture.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, captureHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(fps))

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	cmd := exec.Command(pythonPath, scriptPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		capture.Close()
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		capture.Close()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		capture.Close()
		return nil, fmt.Errorf("start landmark service: %w", err)
	}

	s := &MediaPipeSource{
		deviceID: deviceID,
		fps:      fps,
		capture:  capture,
		cmd:      cmd,
		stdin:    stdin,
		stdout:   bufio.NewReader(stdout),
		ch:       make(chan Report, 2),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Reports returns the channel detected joint reports arrive on.
func (s *MediaPipeSource) Reports() <-chan Report {
	return s.ch
}

// Close stops capture and shuts down the landmark subprocess.
func (s *MediaPipeSource) Close() error {
	close(s.stop)
	<-s.done

	s.stdin.Close()
	err := s.cmd.Wait()
	if cerr := s.capture.Close(); err == nil {
		err = cerr
	}
	return err
}

// run is the capture loop: read a frame, detect, publish, at the capture
// rate. Detection errors drop the frame rather than the source.
func (s *MediaPipeSource) run() {
	defer close(s.done)
	defer close(s.ch)

	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	mat := gocv.NewMat()
	defer mat.Close()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if ok := s.capture.Read(&mat); !ok || mat.Empty() {
				continue
			}

			hands, err := s.detect(&mat)
			if err != nil {
				log.Printf("track: landmark detection error: %v", err)
				continue
			}

			report := Report{TimestampMs: time.Now().UnixMilli(), Hands: hands}
			select {
			case s.ch <- report:
			default:
				// Loop is behind; a stale frame helps nobody.
			}
		}
	}
}

// detect round-trips one frame through the landmark subprocess.
func (s *MediaPipeSource) detect(mat *gocv.Mat) ([]HandReport, error) {
	buf, err := gocv.IMEncode(".jpg", *mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := s.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := s.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []HandReport `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return response.Hands, nil
}

// findLandmarkScript locates mediapipe_service.py next to the binary, the
// working directory, or under ~/.mudra.
func findLandmarkScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/mediapipe_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a project or home
// virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
