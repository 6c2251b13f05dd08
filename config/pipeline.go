package config

import (
	"fmt"
)

type PipelineConfig struct {
	WorkDir         string
	FilesDir        string
	FfmpegPath      string
	FfprobePath     string
	DefaultStyle    string
	StylesFile      string
	CaptionsEnabled bool
	KeepWorkDir     bool
	SceneWorkers    int
	JobWorkers      int
	ScriptWords     int
}

func GetPipelineConfig() (*PipelineConfig, error) {
	captionsEnabled, err := getBoolEnv("CAPTIONS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	keepWorkDir, err := getBoolEnv("KEEP_WORK_DIR", false)
	if err != nil {
		return nil, err
	}
	sceneWorkers, err := getIntEnv("SCENE_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if sceneWorkers < 1 {
		return nil, fmt.Errorf("SCENE_WORKERS must be at least 1")
	}
	jobWorkers, err := getIntEnv("JOB_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	scriptWords, err := getIntEnv("SCRIPT_WORDS", 150)
	if err != nil {
		return nil, err
	}

	return &PipelineConfig{
		WorkDir:         getEnvDefault("WORK_DIR", "data"),
		FilesDir:        getEnvDefault("FILES_DIR", "files"),
		FfmpegPath:      getEnvDefault("FFMPEG_PATH", "ffmpeg"),
		FfprobePath:     getEnvDefault("FFPROBE_PATH", "ffprobe"),
		DefaultStyle:    getEnvDefault("DEFAULT_STYLE", "Infinite Zoom"),
		StylesFile:      getEnvDefault("STYLES_FILE", ""),
		CaptionsEnabled: captionsEnabled,
		KeepWorkDir:     keepWorkDir,
		SceneWorkers:    sceneWorkers,
		JobWorkers:      jobWorkers,
		ScriptWords:     scriptWords,
	}, nil
}
