package service

// FanoutMode 分发模式
type FanoutMode int

const (
    // FanoutPush 推模式：写扩散到每个粉丝收件箱
    FanoutPush FanoutMode = iota + 1
    // FanoutPull 拉模式：只写作者发件箱，粉丝读取时回源
    FanoutPull
    // FanoutHybrid 混合：收件箱与发件箱双写，读取时按内容ID去重
    FanoutHybrid
)

func (m FanoutMode) String() string {
    switch m {
    case FanoutPush:
        return "PUSH"
    case FanoutPull:
        return "PULL"
    case FanoutHybrid:
        return "HYBRID"
    default:
        return "UNKNOWN"
    }
}

// DecideFanoutMode 按实时粉丝数选择分发模式。
// 纯函数，阈值判定与分发器本身解耦，便于单测。
func DecideFanoutMode(followerCount, pushThreshold, pullThreshold int64) FanoutMode {
    switch {
    case followerCount <= pushThreshold:
        return FanoutPush
    case followerCount >= pullThreshold:
        return FanoutPull
    default:
        return FanoutHybrid
    }
}
