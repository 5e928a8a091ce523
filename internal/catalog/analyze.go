package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/aspargus/aspargus/internal/domain/resume"
	"github.com/aspargus/aspargus/internal/imgx"
	"github.com/aspargus/aspargus/internal/types"
)

const (
	// storyPrompt drives the vision stage of the two-step topology.
	storyPrompt = "The following images are part of a video, they tell a story. Please describe that story focusing on the persons and their action and less on their environment."

	// resumePrompt prefixes the story in the text stage; the story is
	// appended directly after the trailing colon.
	resumePrompt = "You are a helpful assistant and expert in concise storytelling. The following text tells the story of a video. Please resume that story in 20 words focusing on the person and their action and less on their environment, from that resume please generate a title of maximum 8 words, and make a list of up to 5 keywords that resumes the story, the keywords will include the person on the video if any (e.g. woman, child...). Please format the answer in a json format: {\"title\": <<title>>, \"description\": <<description>>, \"keywords\": <<array of keywords>>}, with no other text at all, only the json result. The story is:"

	// combinedPrompt asks the vision model for the resume in one call.
	// Smaller vision models tend to wrap the JSON in prose, hence the
	// extraction step on the answer.
	combinedPrompt = "The following images are part of a video, they tell a story. Please describe that story focusing on the persons and their action and less on their environment. Please resume that story in 20 words focusing on the person and their action and less on their environment, from that resume please generate a title of maximum 8 words, and make a list of up to 5 keywords that resumes the story, the keywords will include the person on the video if any (e.g. woman, child...). Please format the answer in a valid json format: {\"title\": <<title>>, \"description\": <<description>>, \"keywords\": <<array of keywords>>}, with no other text at all, only the json result."

	// modelTemperature applies to every generate call.
	modelTemperature = 0.5

	// frameBox bounds the longer side of a frame before it is sent to the
	// vision model.
	frameBox = 672
)

// Analyze fills in each video's resume. With two steps enabled the whole
// batch goes through the vision model first and through the text model
// second; otherwise one vision call per video does both jobs.
func (c *Catalog) Analyze(ctx context.Context) {
	if c.settings.TwoSteps {
		c.describeVideos(ctx)
		c.condenseStories(ctx)
		return
	}
	c.analyzeCombined(ctx)
}

func (c *Catalog) describeVideos(ctx context.Context) {
	for _, v := range c.videos {
		if v.Skip {
			c.progress(v, "Skipping %s", v.Path)
			continue
		}
		c.progress(v, "Running computer vision model for %s", v.Path)
		story, err := c.describeVideo(ctx, v)
		if err != nil {
			c.progressErr(v, "Error while running computer vision model: %v", err)
			continue
		}
		v.Story = story
	}
}

func (c *Catalog) describeVideo(ctx context.Context, v *Video) (string, error) {
	images, err := c.encodeFrames(v)
	if err != nil {
		return "", err
	}
	story, err := c.d.Vision.Generate(ctx, types.GenerateRequest{
		Prompt:      storyPrompt,
		Images:      images,
		Temperature: modelTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("vision model for %s: %w", v.Path, err)
	}
	c.logger.Debug(fmt.Sprintf("Story: %s", story))
	return story, nil
}

func (c *Catalog) condenseStories(ctx context.Context) {
	for _, v := range c.videos {
		if v.Skip {
			c.progress(v, "Skipping %s", v.Path)
			continue
		}
		c.progress(v, "Running resume model for %s", v.Path)
		r, err := c.condenseStory(ctx, v)
		if err != nil {
			c.progressErr(v, "Error while running resume model: %v", err)
			continue
		}
		v.Resume = r
		c.progress(v, "Title: %s", r.Title)
		c.progress(v, "Description: %s", r.Description)
		c.progress(v, "Keywords: %s", strings.Join(r.Keywords, ", "))
	}
}

func (c *Catalog) condenseStory(ctx context.Context, v *Video) (resume.Resume, error) {
	if v.Story == "" {
		return resume.Resume{}, fmt.Errorf("No story to resume for : %s", v.Path)
	}
	answer, err := c.d.Text.Generate(ctx, types.GenerateRequest{
		Prompt:      resumePrompt + v.Story,
		Temperature: modelTemperature,
	})
	if err != nil {
		return resume.Resume{}, fmt.Errorf("resume model for %s: %w", v.Path, err)
	}
	return resume.Parse(answer)
}

func (c *Catalog) analyzeCombined(ctx context.Context) {
	for _, v := range c.videos {
		if v.Skip {
			c.progress(v, "Skipping %s", v.Path)
			continue
		}
		c.progress(v, "Running computer vision model for %s", v.Path)
		r, err := c.analyzeVideo(ctx, v)
		if err != nil {
			c.progressErr(v, "Error while running computer vision model: %v", err)
			continue
		}
		v.Resume = r
	}
}

func (c *Catalog) analyzeVideo(ctx context.Context, v *Video) (resume.Resume, error) {
	images, err := c.encodeFrames(v)
	if err != nil {
		return resume.Resume{}, err
	}
	answer, err := c.d.Vision.Generate(ctx, types.GenerateRequest{
		Prompt:      combinedPrompt,
		Images:      images,
		Temperature: modelTemperature,
	})
	if err != nil {
		return resume.Resume{}, fmt.Errorf("vision model for %s: %w", v.Path, err)
	}
	raw, err := resume.ExtractJSON(answer)
	if err != nil {
		return resume.Resume{}, fmt.Errorf("answer for %s: %w", v.Path, err)
	}
	c.logger.Debug(fmt.Sprintf("Story: %s", raw))
	return resume.Parse(raw)
}

// encodeFrames shrinks the video's frames in place and returns them
// base64-encoded, ready for a generate request.
func (c *Catalog) encodeFrames(v *Video) ([]string, error) {
	c.resizeFrames(v.Thumbnails)
	images := make([]string, 0, len(v.Thumbnails))
	for _, p := range v.Thumbnails {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read frame for %s: %w", v.Path, err)
		}
		images = append(images, base64.StdEncoding.EncodeToString(b))
	}
	return images, nil
}

// resizeFrames runs one resize per frame concurrently. A frame that fails
// to resize is left at full size and sent anyway.
func (c *Catalog) resizeFrames(paths []string) {
	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if err := imgx.ResizeInPlace(p, frameBox); err != nil {
				c.logger.Debug(fmt.Sprintf("resize frame %s: %v", p, err))
			}
		}(p)
	}
	wg.Wait()
}
